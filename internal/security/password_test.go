package security

import "testing"

func TestHashAndVerify_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Fatalf("hash must never equal the plaintext")
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Fatalf("expected verify to succeed for the original password")
	}

	if VerifyPassword("wrong password", hash) {
		t.Fatalf("expected verify to fail for a different password")
	}
}

func TestHashPassword_SaltsFresh(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ (fresh salt per call)")
	}
}

func TestVerifyPassword_FailsClosedOnMalformedHash(t *testing.T) {
	for _, bad := range []string{"", "not-a-bcrypt-hash", "$2a$xx$garbage", "plaintext"} {
		if VerifyPassword("anything", bad) {
			t.Fatalf("verify(%q) should fail closed", bad)
		}
	}
}
