package degiro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/StockwatchDev/stockwatch/date"
)

// Endpoint URLs are variables so tests can point them at a local server.
var (
	loginURL     = "https://trader.degiro.nl/login/secure/login"
	clientURL    = "https://trader.degiro.nl/pa/secure/client"
	portfolioURL = "https://trader.degiro.nl/reporting/secure/v3/positionReport/csv"
	accountURL   = "https://trader.degiro.nl/reporting/secure/v3/cashAccountReport/csv"
)

const (
	totpExt   = "/totp"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:107.0) Gecko/20100101 Firefox/107.0"

	// Report endpoints expect dates as dd/mm/yyyy query parameters.
	reportDateFormat = "02/01/2006"
)

// A valid session id is 32 alphanumericals followed by a dot and the
// identifier of the authentication server.
var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{32}\.\w+$`)

// IsValidSessionID reports whether s matches the session id scheme of the
// trading site.
func IsValidSessionID(s string) bool { return sessionIDPattern.MatchString(s) }

// IsValidAccountID reports whether id can be a trading account number.
func IsValidAccountID(id int) bool { return id > 0 }

// wget retrieves the payload of an authenticated report request.
func wget(uri string, params url.Values) ([]byte, error) {
	r, err := http.NewRequest(http.MethodGet, uri+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	r.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request: %w", err)
	}
	body := resp.Body
	defer body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("got an unexpected response: %s", resp.Status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return buf.Bytes(), nil
}

// reportParams are the query parameters shared by all report endpoints.
func reportParams(account int, sessionID string) url.Values {
	return url.Values{
		"sessionId":  {sessionID},
		"country":    {"NL"},
		"lang":       {"nl"},
		"intAccount": {fmt.Sprint(account)},
	}
}

// GetPortfolioAt downloads the position report csv as of day.
func GetPortfolioAt(day date.Date, account int, sessionID string) ([]byte, error) {
	params := reportParams(account, sessionID)
	params.Set("toDate", day.Format(reportDateFormat))
	data, err := wget(portfolioURL, params)
	if err != nil {
		return nil, fmt.Errorf("error querying position report for %s: %w", day, err)
	}
	return data, nil
}

// GetAccountReport downloads the account report csv covering [start, end].
func GetAccountReport(start, end date.Date, account int, sessionID string) ([]byte, error) {
	params := reportParams(account, sessionID)
	params.Set("fromDate", start.Format(reportDateFormat))
	params.Set("toDate", end.Format(reportDateFormat))
	data, err := wget(accountURL, params)
	if err != nil {
		return nil, fmt.Errorf("error querying account report: %w", err)
	}
	return data, nil
}

// Login authenticates against the trading site and returns the account
// number and session id needed by the report endpoints. goauth is the
// one time password from the authenticator app; leave it empty when the
// account has no second factor.
func Login(username, password, goauth string) (account int, sessionID string, err error) {
	uri := loginURL
	payload := map[string]string{
		"username":           strings.ToLower(username),
		"password":           password,
		"isPassCodeReset":    "false",
		"isRedirectToMobile": "false",
	}
	if goauth != "" {
		uri += totpExt
		payload["oneTimePassword"] = goauth
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", err
	}

	r, err := http.NewRequest(http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("cannot create login request: %w", err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		return 0, "", fmt.Errorf("cannot execute login request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("login refused: %s", resp.Status)
	}

	sessionID, err = extractString(resp.Body, "$.sessionId")
	if err != nil {
		return 0, "", fmt.Errorf("cannot read session id from login response: %w", err)
	}
	if !IsValidSessionID(sessionID) {
		return 0, "", fmt.Errorf("got malformed session id %q", sessionID)
	}

	account, err = clientAccount(sessionID)
	if err != nil {
		return 0, "", err
	}
	return account, sessionID, nil
}

// clientAccount resolves the internal account number for a session.
func clientAccount(sessionID string) (int, error) {
	data, err := wget(clientURL, url.Values{"sessionId": {sessionID}})
	if err != nil {
		return 0, fmt.Errorf("error querying client info: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("could not decode client info json: %w", err)
	}
	v, err := jsonpath.Get("$.data.intAccount", doc)
	if err != nil {
		return 0, fmt.Errorf("no account number in client info: %w", err)
	}
	n, ok := v.(float64)
	if !ok || !IsValidAccountID(int(n)) {
		return 0, fmt.Errorf("got invalid account number %v", v)
	}
	return int(n), nil
}

// extractString reads a json document and returns the string at path.
func extractString(r io.Reader, path string) (string, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return "", err
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", path)
	}
	return s, nil
}
