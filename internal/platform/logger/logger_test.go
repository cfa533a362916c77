package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	hashSalt = "salt"
	kv := sanitizeKVs([]interface{}{
		"email", "a@example.com",
		"Authorization", "Bearer abc",
		"user_id", "6b0f3a2e-6a8f-4d0a-9a42-2f2b7b0c7f10",
		"path", "/api/v1/courses",
		"raw", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTYifQ.sig",
	})
	if len(kv) != 10 {
		t.Fatalf("len: want=10 got=%d", len(kv))
	}
	if kv[1] != redacted {
		t.Fatalf("email: want redacted got=%v", kv[1])
	}
	if kv[3] != redacted {
		t.Fatalf("authorization: want redacted got=%v", kv[3])
	}
	if s, ok := kv[5].(string); !ok || len(s) != len("hash:")+12 {
		t.Fatalf("user_id: want hash got=%v", kv[5])
	}
	if kv[7] != "/api/v1/courses" {
		t.Fatalf("path: want passthrough got=%v", kv[7])
	}
	if kv[9] != redacted {
		t.Fatalf("jwt-looking value: want redacted got=%v", kv[9])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	kv := sanitizeKVs([]interface{}{"course_id", "c1", "dangling"})
	if len(kv) != 3 || kv[2] != "dangling" {
		t.Fatalf("unexpected: %v", kv)
	}
}
