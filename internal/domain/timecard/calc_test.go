package timecard

import "testing"

func TestCalculateFinancialsStandardShift(t *testing.T) {
	fin := CalculateFinancials(8, 50, DefaultPlatformFeeRate)
	if fin.GrossPay != 400 {
		t.Fatalf("expected gross 400, got %v", fin.GrossPay)
	}
	if fin.PlatformFee != 60 {
		t.Fatalf("expected fee 60, got %v", fin.PlatformFee)
	}
	if fin.NetPay != 340 {
		t.Fatalf("expected net 340, got %v", fin.NetPay)
	}
	if fin.ClientCost != 460 {
		t.Fatalf("expected client cost 460, got %v", fin.ClientCost)
	}
	if fin.TotalHours != 8 {
		t.Fatalf("expected hours 8, got %v", fin.TotalHours)
	}
}

func TestCalculateFinancialsRoundsToCents(t *testing.T) {
	fin := CalculateFinancials(7.33, 41.75, DefaultPlatformFeeRate)
	gross := 7.33 * 41.75
	if fin.GrossPay != 306.03 {
		t.Fatalf("expected gross %.2f to round to 306.03, got %v", gross, fin.GrossPay)
	}
	if fin.PlatformFee != 45.9 {
		t.Fatalf("expected fee 45.90, got %v", fin.PlatformFee)
	}
	if fin.NetPay != 260.12 {
		t.Fatalf("expected net 260.12, got %v", fin.NetPay)
	}
	if fin.ClientCost != 351.93 {
		t.Fatalf("expected client cost 351.93, got %v", fin.ClientCost)
	}
}

func TestCalculateFinancialsZeroInputs(t *testing.T) {
	fin := CalculateFinancials(0, 50, DefaultPlatformFeeRate)
	if fin.GrossPay != 0 || fin.NetPay != 0 || fin.PlatformFee != 0 || fin.ClientCost != 0 {
		t.Fatalf("expected all-zero breakdown, got %+v", fin)
	}
}

func TestCalculateFinancialsCustomRate(t *testing.T) {
	fin := CalculateFinancials(10, 60, 0.10)
	if fin.PlatformFee != 60 {
		t.Fatalf("expected fee 60, got %v", fin.PlatformFee)
	}
	if fin.NetPay != 540 {
		t.Fatalf("expected net 540, got %v", fin.NetPay)
	}
	if fin.ClientCost != 660 {
		t.Fatalf("expected client cost 660, got %v", fin.ClientCost)
	}
}
