package swap

import "testing"

func TestTotalForToken(t *testing.T) {
	fee := FeeInfo{
		Components: []FeeComponent{
			{Type: FeeTypeNetwork, Amount: "10000", Token: "polkadot-NATIVE-DOT"},
			{Type: FeeTypePlatform, Amount: "2500", Token: "polkadot-NATIVE-DOT"},
			{Type: FeeTypeNetwork, Amount: "7", Token: "hydradx-NATIVE-HDX"},
			{Type: FeeTypeNetwork, Amount: "garbage", Token: "polkadot-NATIVE-DOT"},
		},
	}

	if got := fee.TotalForToken("polkadot-NATIVE-DOT"); got.String() != "12500" {
		t.Fatalf("expected 12500, got %s", got)
	}
	if got := fee.TotalForToken("hydradx-NATIVE-HDX"); got.String() != "7" {
		t.Fatalf("expected 7, got %s", got)
	}
	if got := fee.TotalForToken("unknown"); got.Sign() != 0 {
		t.Fatalf("expected zero for an unknown token, got %s", got)
	}
}

func TestSumFeesByToken(t *testing.T) {
	fees := []FeeInfo{
		{Components: []FeeComponent{}},
		{Components: []FeeComponent{{Type: FeeTypeNetwork, Amount: "100", Token: "a"}}},
		{Components: []FeeComponent{
			{Type: FeeTypeNetwork, Amount: "50", Token: "a"},
			{Type: FeeTypePlatform, Amount: "9", Token: "b"},
		}},
	}

	totals := SumFeesByToken(fees)
	if len(totals) != 2 {
		t.Fatalf("expected totals for two tokens, got %d", len(totals))
	}
	if totals["a"].String() != "150" {
		t.Fatalf("expected 150 for token a, got %s", totals["a"])
	}
	if totals["b"].String() != "9" {
		t.Fatalf("expected 9 for token b, got %s", totals["b"])
	}
}
