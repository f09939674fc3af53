package service

import (
	"testing"

	"github.com/smarteats-next/internal/constants"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"pending", constants.OrderStatusPending},
		{"Ready ", constants.OrderStatusReady},
		{"  APPROVED", constants.OrderStatusApproved},
		{"Out for Delivery", constants.OrderStatusOutForDelivery},
		{"out_for_delivery", constants.OrderStatusOutForDelivery},
		{"Delivered\t", constants.OrderStatusDelivered},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.input); got != tc.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestIsKnownStatus(t *testing.T) {
	for _, status := range []string{
		constants.OrderStatusPending,
		constants.OrderStatusApproved,
		constants.OrderStatusReady,
		constants.OrderStatusOutForDelivery,
		constants.OrderStatusCollected,
		constants.OrderStatusDelivered,
		constants.OrderStatusCanceled,
	} {
		if !IsKnownStatus(status) {
			t.Fatalf("expected %q to be a known status", status)
		}
	}
	for _, status := range []string{"", "shipped", "Ready "} {
		if IsKnownStatus(status) {
			t.Fatalf("expected %q to be unknown", status)
		}
	}
}

func TestIsTerminalStatus(t *testing.T) {
	terminal := []string{
		constants.OrderStatusCollected,
		constants.OrderStatusDelivered,
		constants.OrderStatusCanceled,
	}
	for _, status := range terminal {
		if !IsTerminalStatus(status) {
			t.Fatalf("expected %q to be terminal", status)
		}
	}
	open := []string{
		constants.OrderStatusPending,
		constants.OrderStatusApproved,
		constants.OrderStatusReady,
		constants.OrderStatusOutForDelivery,
	}
	for _, status := range open {
		if IsTerminalStatus(status) {
			t.Fatalf("expected %q to be non-terminal", status)
		}
	}
}

func TestCanTransitionPickup(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusApproved, true},
		{constants.OrderStatusApproved, constants.OrderStatusReady, true},
		{constants.OrderStatusReady, constants.OrderStatusCollected, true},
		{constants.OrderStatusPending, constants.OrderStatusCanceled, true},
		{constants.OrderStatusReady, constants.OrderStatusCanceled, true},
		// 取货订单不存在配送环节
		{constants.OrderStatusReady, constants.OrderStatusOutForDelivery, false},
		{constants.OrderStatusReady, constants.OrderStatusDelivered, false},
		// 不允许跳级或回退
		{constants.OrderStatusPending, constants.OrderStatusReady, false},
		{constants.OrderStatusApproved, constants.OrderStatusPending, false},
		{constants.OrderStatusCollected, constants.OrderStatusCanceled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(constants.DeliveryMethodPickup, tc.from, tc.to); got != tc.want {
			t.Fatalf("pickup %s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanTransitionCourier(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusApproved, true},
		{constants.OrderStatusApproved, constants.OrderStatusReady, true},
		{constants.OrderStatusReady, constants.OrderStatusOutForDelivery, true},
		{constants.OrderStatusOutForDelivery, constants.OrderStatusDelivered, true},
		{constants.OrderStatusOutForDelivery, constants.OrderStatusCanceled, true},
		// 骑手订单没有到店自取环节
		{constants.OrderStatusReady, constants.OrderStatusCollected, false},
		{constants.OrderStatusReady, constants.OrderStatusDelivered, false},
		{constants.OrderStatusDelivered, constants.OrderStatusCanceled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(constants.DeliveryMethodCourier, tc.from, tc.to); got != tc.want {
			t.Fatalf("courier %s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanTransitionSameStatusIsIdempotent(t *testing.T) {
	for _, method := range []string{constants.DeliveryMethodPickup, constants.DeliveryMethodCourier} {
		for status := range knownStatuses {
			if !CanTransition(method, status, status) {
				t.Fatalf("same-status submit should be allowed for %s/%s", method, status)
			}
		}
	}
}
