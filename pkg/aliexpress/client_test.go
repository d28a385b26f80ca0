package aliexpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"laboutique_erp_202610/pkg/retry"
)

const (
	testAppKey = "12345"
	testSecret = "secret"
)

// fakeOpenPlatform 模拟开放平台：校验签名，发放 token，业务接口校验 access_token
type fakeOpenPlatform struct {
	t *testing.T

	mu             sync.Mutex
	validToken     string
	seenTokens     []string
	refreshCount   int32
	refreshRefuse  bool
	refreshDelay   time.Duration
	syncFailures   int // 业务接口先返回多少次 503
	forceIllegal   bool
	signMethod     string
	lastBizParams  map[string]string
	tokenGenerator int
}

func newFakeOpenPlatform(t *testing.T) (*fakeOpenPlatform, *httptest.Server) {
	f := &fakeOpenPlatform{t: t, validToken: "tok-0", signMethod: SignMethodSHA256}
	srv := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(srv.Close)
	return f, srv
}

func queryMap(r *http.Request) map[string]string {
	out := map[string]string{}
	for k, v := range r.URL.Query() {
		out[k] = v[0]
	}
	return out
}

func (f *fakeOpenPlatform) handle(w http.ResponseWriter, r *http.Request) {
	params := queryMap(r)
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/rest/auth/token/create":
		if !VerifySign(testSecret, "/auth/token/create", params, SignMethodSHA256) {
			fmt.Fprint(w, `{"code":"IncompleteSignature","message":"bad sign"}`)
			return
		}
		fmt.Fprintf(w, `{"code":"0","access_token":"%s","refresh_token":"rt-0","expires_in":86400,"refresh_expires_in":2592000,"seller_id":"2001","account":"seller@example.com"}`, f.validToken)

	case "/rest/auth/token/refresh":
		atomic.AddInt32(&f.refreshCount, 1)
		if f.refreshDelay > 0 {
			time.Sleep(f.refreshDelay)
		}
		if !VerifySign(testSecret, "/auth/token/refresh", params, SignMethodSHA256) {
			fmt.Fprint(w, `{"code":"IncompleteSignature","message":"bad sign"}`)
			return
		}
		if f.refreshRefuse {
			fmt.Fprint(w, `{"error_response":{"code":"InvalidRefreshToken","msg":"refresh token invalid"}}`)
			return
		}
		f.mu.Lock()
		f.tokenGenerator++
		f.validToken = fmt.Sprintf("tok-%d", f.tokenGenerator)
		f.forceIllegal = false
		tok := f.validToken
		f.mu.Unlock()
		fmt.Fprintf(w, `{"code":"0","access_token":"%s","refresh_token":"rt-%d","expires_in":86400}`, tok, f.tokenGenerator)

	case "/sync":
		f.mu.Lock()
		f.seenTokens = append(f.seenTokens, params["access_token"])
		f.lastBizParams = params
		valid := f.validToken
		illegal := f.forceIllegal
		failures := f.syncFailures
		if failures > 0 {
			f.syncFailures--
		}
		f.mu.Unlock()

		if failures > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"message":"busy"}`)
			return
		}
		if !VerifySign(testSecret, "", params, f.signMethod) {
			fmt.Fprint(w, `{"code":"IncompleteSignature","message":"bad sign"}`)
			return
		}
		if illegal || params["access_token"] != valid {
			fmt.Fprint(w, `{"code":"IllegalAccessToken","message":"The specified access token is invalid or expired","type":"ISV"}`)
			return
		}
		fmt.Fprint(w, `{"aliexpress_ds_product_get_response":{"result":{"ae_item_base_info_dto":{"subject":"Lamp","product_id":1005}},"rsp_code":"200"}}`)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(srvURL string, now func() time.Time, method string) *Client {
	return NewClient(Config{
		AppKey:     testAppKey,
		AppSecret:  testSecret,
		BaseURL:    srvURL,
		AuthURL:    "https://auth.example.com/oauth/authorize",
		SignMethod: method,
	},
		WithClock(now),
		WithRetrier(retry.NewRetrier(retry.Config{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond})),
	)
}

func TestAuthorizeURL(t *testing.T) {
	c := NewClient(Config{AppKey: "k", AuthURL: "https://auth.example.com/oauth/authorize", CallbackURL: "https://shop.example.com/cb"})
	got := c.AuthorizeURL("st8")
	want := "https://auth.example.com/oauth/authorize?client_id=k&force_auth=true&redirect_uri=https%3A%2F%2Fshop.example.com%2Fcb&response_type=code&state=st8"
	if got != want {
		t.Errorf("AuthorizeURL() = %s, want %s", got, want)
	}
}

func TestCreateToken(t *testing.T) {
	_, srv := newFakeOpenPlatform(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodSHA256)

	tok, err := c.CreateToken(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}
	if tok.AccessToken != "tok-0" || tok.RefreshToken != "rt-0" {
		t.Errorf("token = %+v", tok)
	}
	if !tok.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("ExpiresAt = %v", tok.ExpiresAt)
	}
	if !tok.RefreshExpiresAt.Equal(now.Add(30 * 24 * time.Hour)) {
		t.Errorf("RefreshExpiresAt = %v", tok.RefreshExpiresAt)
	}
	if tok.SellerID != "2001" {
		t.Errorf("SellerID = %s", tok.SellerID)
	}
}

func TestCreateToken_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.CreateToken(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("CreateToken() error = %v, want ErrNotConfigured", err)
	}
}

func TestSessionCall_ValidToken(t *testing.T) {
	f, srv := newFakeOpenPlatform(t)
	now := time.Now()
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodSHA256)
	store := NewMemoryTokenStore(&Token{AccessToken: "tok-0", RefreshToken: "rt-0", ExpiresAt: now.Add(time.Hour)})

	raw, err := c.Session("store-1", store).Call(context.Background(), MethodProductGet, map[string]string{"product_id": "1005"})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := resp["result"]; !ok {
		t.Errorf("Call() should return the method response node, got %s", raw)
	}
	if atomic.LoadInt32(&f.refreshCount) != 0 {
		t.Errorf("refreshCount = %d, want 0", f.refreshCount)
	}
	if f.lastBizParams["method"] != MethodProductGet || f.lastBizParams["app_key"] != testAppKey {
		t.Errorf("missing common params: %v", f.lastBizParams)
	}
}

func TestSessionCall_ProactiveRefreshNeverSendsExpiredToken(t *testing.T) {
	f, srv := newFakeOpenPlatform(t)
	now := time.Now()
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodSHA256)
	// 1 分钟后过期，落在 5 分钟提前量内
	store := NewMemoryTokenStore(&Token{AccessToken: "tok-0", RefreshToken: "rt-0", ExpiresAt: now.Add(time.Minute)})

	if _, err := c.Session("store-1", store).Call(context.Background(), MethodProductGet, nil); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if atomic.LoadInt32(&f.refreshCount) != 1 {
		t.Errorf("refreshCount = %d, want 1", f.refreshCount)
	}
	for _, tok := range f.seenTokens {
		if tok == "tok-0" {
			t.Errorf("expired token was sent: %v", f.seenTokens)
		}
	}
	saved, _ := store.Load(context.Background())
	if saved.AccessToken != "tok-1" || saved.RefreshToken != "rt-1" {
		t.Errorf("saved token = %+v", saved)
	}
}

func TestSessionCall_RefreshOnRejectedToken(t *testing.T) {
	f, srv := newFakeOpenPlatform(t)
	f.forceIllegal = true
	now := time.Now()
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodSHA256)
	store := NewMemoryTokenStore(&Token{AccessToken: "tok-0", RefreshToken: "rt-0", ExpiresAt: now.Add(time.Hour)})

	if _, err := c.Session("store-1", store).Call(context.Background(), MethodProductGet, nil); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got := atomic.LoadInt32(&f.refreshCount); got != 1 {
		t.Errorf("refreshCount = %d, want 1", got)
	}
	if len(f.seenTokens) != 2 || f.seenTokens[1] != "tok-1" {
		t.Errorf("seenTokens = %v, want [tok-0 tok-1]", f.seenTokens)
	}
}

func TestSessionRefresh_RefusedMarksInvalid(t *testing.T) {
	f, srv := newFakeOpenPlatform(t)
	f.refreshRefuse = true
	now := time.Now()
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodSHA256)
	store := NewMemoryTokenStore(&Token{AccessToken: "tok-0", RefreshToken: "rt-0", ExpiresAt: now.Add(-time.Minute)})
	sess := c.Session("store-1", store)

	_, err := sess.Call(context.Background(), MethodProductGet, nil)
	if !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("Call() error = %v, want ErrAuthorizationRequired", err)
	}
	saved, _ := store.Load(context.Background())
	if !saved.Invalid {
		t.Error("token should be marked invalid")
	}
	if store.Reason() == "" {
		t.Error("invalid reason should be recorded")
	}
	if len(f.seenTokens) != 0 {
		t.Errorf("business api should not be called, seen %v", f.seenTokens)
	}

	// 已失效后不再请求刷新
	before := atomic.LoadInt32(&f.refreshCount)
	if _, err := sess.Call(context.Background(), MethodProductGet, nil); !errors.Is(err, ErrAuthorizationRequired) {
		t.Errorf("second Call() error = %v", err)
	}
	if atomic.LoadInt32(&f.refreshCount) != before {
		t.Error("refresh should not be attempted for an invalid token")
	}
}

func TestSessionRefresh_ExpiredRefreshToken(t *testing.T) {
	f, srv := newFakeOpenPlatform(t)
	now := time.Now()
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodSHA256)
	store := NewMemoryTokenStore(&Token{
		AccessToken: "tok-0", RefreshToken: "rt-0",
		ExpiresAt: now.Add(-time.Hour), RefreshExpiresAt: now.Add(-time.Minute),
	})

	if _, err := c.Session("s", store).Token(context.Background()); !errors.Is(err, ErrAuthorizationRequired) {
		t.Fatalf("Token() error = %v, want ErrAuthorizationRequired", err)
	}
	if atomic.LoadInt32(&f.refreshCount) != 0 {
		t.Error("refresh endpoint should not be called with an expired refresh token")
	}
}

func TestSession_ConcurrentRefreshDeduped(t *testing.T) {
	f, srv := newFakeOpenPlatform(t)
	f.refreshDelay = 50 * time.Millisecond
	now := time.Now()
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodSHA256)
	store := NewMemoryTokenStore(&Token{AccessToken: "tok-0", RefreshToken: "rt-0", ExpiresAt: now.Add(-time.Minute)})
	sess := c.Session("store-1", store)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := sess.Token(context.Background())
			if err != nil {
				errs <- err
				return
			}
			if tok.AccessToken != "tok-1" {
				errs <- fmt.Errorf("got token %s", tok.AccessToken)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if got := atomic.LoadInt32(&f.refreshCount); got != 1 {
		t.Errorf("refreshCount = %d, want 1", got)
	}
}

func TestSessionCall_RetriesTransientErrors(t *testing.T) {
	f, srv := newFakeOpenPlatform(t)
	f.syncFailures = 2
	now := time.Now()
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodSHA256)
	store := NewMemoryTokenStore(&Token{AccessToken: "tok-0", RefreshToken: "rt-0", ExpiresAt: now.Add(time.Hour)})

	if _, err := c.Session("s", store).Call(context.Background(), MethodProductGet, nil); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(f.seenTokens) != 3 {
		t.Errorf("attempts = %d, want 3", len(f.seenTokens))
	}
}

func TestSessionCall_MD5(t *testing.T) {
	f, srv := newFakeOpenPlatform(t)
	f.signMethod = SignMethodMD5
	now := time.Now()
	c := newTestClient(srv.URL, func() time.Time { return now }, SignMethodMD5)
	store := NewMemoryTokenStore(&Token{AccessToken: "tok-0", RefreshToken: "rt-0", ExpiresAt: now.Add(time.Hour)})

	if _, err := c.Session("s", store).Call(context.Background(), MethodProductGet, nil); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if f.lastBizParams["v"] != "2.0" || f.lastBizParams["sign_method"] != "md5" {
		t.Errorf("md5 params = %v", f.lastBizParams)
	}
}

func TestSession_NoToken(t *testing.T) {
	_, srv := newFakeOpenPlatform(t)
	c := newTestClient(srv.URL, time.Now, SignMethodSHA256)
	if _, err := c.Session("s", NewMemoryTokenStore(nil)).Call(context.Background(), MethodProductGet, nil); !errors.Is(err, ErrAuthorizationRequired) {
		t.Errorf("Call() error = %v, want ErrAuthorizationRequired", err)
	}
}
