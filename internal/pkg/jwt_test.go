package pkg

import (
	"testing"
)

func TestGeneratePairRoundTrip(t *testing.T) {
	pair, err := GeneratePair(42, true)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	claims, err := ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.UserID != 42 || !claims.IsAdmin {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Subject != "access" {
		t.Errorf("subject = %q", claims.Subject)
	}
}

// access 和 refresh 用不同密钥签名，互相不可替换
func TestTokensAreNotInterchangeable(t *testing.T) {
	pair, err := GeneratePair(7, false)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	if _, err := ParseAccess(pair.RefreshToken); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := Refresh(pair.AccessToken); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	pair, err := GeneratePair(7, false)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	next, err := Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := ParseAccess(next.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.UserID != 7 || claims.IsAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := ParseAccess("not-a-token"); err == nil {
		t.Error("garbage accepted")
	}
}
