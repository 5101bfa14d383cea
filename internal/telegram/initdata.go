package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// maxInitDataAge bounds how old a signed initData payload may be before it
// is rejected as a possible replay.
const maxInitDataAge = 24 * time.Hour

// InitDataUser is the Telegram user embedded in a verified initData payload.
type InitDataUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// VerifyInitData validates a Telegram MiniApp initData string against the
// bot token and returns the embedded user.
//
// The data_check_string is built from all key=value pairs except "hash",
// sorted lexicographically and joined with newlines. The secret key is
// HMAC_SHA256("WebAppData", bot_token); the expected hash is
// HMAC_SHA256(secret, data_check_string) in hex.
func VerifyInitData(raw, botToken string, now time.Time) (InitDataUser, error) {
	var user InitDataUser

	if botToken == "" {
		return user, fmt.Errorf("bot token not configured")
	}
	if strings.TrimSpace(raw) == "" {
		return user, fmt.Errorf("init data missing")
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return user, fmt.Errorf("init data malformed: %w", err)
	}

	receivedHash := values.Get("hash")
	if receivedHash == "" {
		return user, fmt.Errorf("init data hash missing")
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(receivedHash)) != 1 {
		return user, fmt.Errorf("init data signature mismatch")
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		ts, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return user, fmt.Errorf("init data auth_date malformed")
		}
		if now.Sub(time.Unix(ts, 0)) > maxInitDataAge {
			return user, fmt.Errorf("init data expired")
		}
	}

	if rawUser := values.Get("user"); rawUser != "" {
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			return user, fmt.Errorf("init data user malformed: %w", err)
		}
	}
	if user.ID == 0 {
		return user, fmt.Errorf("init data user missing")
	}

	return user, nil
}
