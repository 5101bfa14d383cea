package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

const testBotToken = "12345:TEST-TOKEN"

// signInitData builds a signed initData query string the way Telegram does.
func signInitData(t *testing.T, fields map[string]string, botToken string) string {
	t.Helper()

	pairs := make([]string, 0, len(fields))
	for key, value := range fields {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	values := url.Values{}
	for key, value := range fields {
		values.Set(key, value)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func TestVerifyInitDataAcceptsValidPayload(t *testing.T) {
	now := time.Now()
	raw := signInitData(t, map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      `{"id":777,"first_name":"Ann","username":"ann_ops"}`,
	}, testBotToken)

	user, err := VerifyInitData(raw, testBotToken, now)
	if err != nil {
		t.Fatalf("expected valid init data, got error: %v", err)
	}
	if user.ID != 777 {
		t.Errorf("expected user id 777, got %d", user.ID)
	}
	if user.Username != "ann_ops" {
		t.Errorf("expected username ann_ops, got %q", user.Username)
	}
}

func TestVerifyInitDataRejectsTamperedPayload(t *testing.T) {
	now := time.Now()
	raw := signInitData(t, map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      `{"id":777,"username":"ann_ops"}`,
	}, testBotToken)

	tampered := strings.Replace(raw, "777", "778", 1)
	if _, err := VerifyInitData(tampered, testBotToken, now); err == nil {
		t.Fatal("expected signature mismatch for tampered payload")
	}
}

func TestVerifyInitDataRejectsWrongToken(t *testing.T) {
	now := time.Now()
	raw := signInitData(t, map[string]string{
		"auth_date": strconv.FormatInt(now.Unix(), 10),
		"user":      `{"id":777}`,
	}, "999:OTHER-TOKEN")

	if _, err := VerifyInitData(raw, testBotToken, now); err == nil {
		t.Fatal("expected signature mismatch for wrong bot token")
	}
}

func TestVerifyInitDataRejectsExpiredPayload(t *testing.T) {
	now := time.Now()
	raw := signInitData(t, map[string]string{
		"auth_date": strconv.FormatInt(now.Add(-48*time.Hour).Unix(), 10),
		"user":      `{"id":777}`,
	}, testBotToken)

	if _, err := VerifyInitData(raw, testBotToken, now); err == nil {
		t.Fatal("expected expired init data to be rejected")
	}
}

func TestVerifyInitDataRejectsEmptyInput(t *testing.T) {
	if _, err := VerifyInitData("", testBotToken, time.Now()); err == nil {
		t.Fatal("expected error for empty init data")
	}
	if _, err := VerifyInitData("hash=deadbeef", "", time.Now()); err == nil {
		t.Fatal("expected error for missing bot token")
	}
}
