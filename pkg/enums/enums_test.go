package enums

import "testing"

func TestParseOrderType(t *testing.T) {
	t.Parallel()

	if got, err := ParseOrderType("take_away"); err != nil || got != OrderTypeTakeAway {
		t.Fatalf("unexpected result: %v, %v", got, err)
	}
	if _, err := ParseOrderType("Dine In"); err == nil {
		t.Fatal("display strings are not valid enum values")
	}
	if !OrderTypeDineIn.IsValid() {
		t.Fatal("dine_in should be valid")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"mpu", "kbz_pay", "aya_pay", "ok_dollar"} {
		if _, err := ParsePaymentMethod(raw); err != nil {
			t.Fatalf("expected %q to parse: %v", raw, err)
		}
	}
	if _, err := ParsePaymentMethod("visa"); err == nil {
		t.Fatal("expected unknown method to be rejected")
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	if got, err := ParseOrderStatus("paid"); err != nil || got != OrderStatusPaid {
		t.Fatalf("unexpected result: %v, %v", got, err)
	}
	if OrderStatus("shipped").IsValid() {
		t.Fatal("shipped is not part of the pre-order lifecycle")
	}
}

func TestParseNotificationStatus(t *testing.T) {
	t.Parallel()

	if got, err := ParseNotificationStatus("unread"); err != nil || got != NotificationStatusUnread {
		t.Fatalf("unexpected result: %v, %v", got, err)
	}
	if _, err := ParseNotificationStatus("archived"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}
