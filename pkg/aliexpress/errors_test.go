package aliexpress

import (
	"errors"
	"net/http"
	"testing"

	"laboutique_erp_202610/pkg/retry"
)

func TestDecodeEnvelope(t *testing.T) {
	const method = "aliexpress.ds.product.get"

	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantCode    string
		wantExpired bool
		wantKind    retry.Kind
	}{
		{
			name:   "success business response",
			status: 200,
			body:   `{"aliexpress_ds_product_get_response":{"result":{},"rsp_code":"200"},"request_id":"r1"}`,
		},
		{
			name:   "success iop token",
			status: 200,
			body:   `{"code":"0","access_token":"x","request_id":"r1"}`,
		},
		{
			name:     "top error_response",
			status:   200,
			body:     `{"error_response":{"code":15,"msg":"Remote service error","sub_code":"isp.service-unavailable","sub_msg":"busy"}}`,
			wantErr:  true,
			wantCode: "15",
			wantKind: retry.KindServer,
		},
		{
			name:        "iop illegal access token",
			status:      200,
			body:        `{"code":"IllegalAccessToken","message":"The specified access token is invalid or expired","request_id":"r2","type":"ISV"}`,
			wantErr:     true,
			wantCode:    "IllegalAccessToken",
			wantExpired: true,
			wantKind:    retry.KindAuth,
		},
		{
			name:     "resp_result failure",
			status:   200,
			body:     `{"aliexpress_ds_product_get_response":{"resp_result":{"resp_code":404,"resp_msg":"product not found"}}}`,
			wantErr:  true,
			wantCode: "404",
			wantKind: retry.KindValidation,
		},
		{
			name:     "rsp_code failure",
			status:   200,
			body:     `{"aliexpress_ds_product_get_response":{"rsp_code":"500","rsp_msg":"system error"}}`,
			wantErr:  true,
			wantCode: "500",
		},
		{
			name:        "http 401 plain",
			status:      401,
			body:        `unauthorized`,
			wantErr:     true,
			wantExpired: true,
			wantKind:    retry.KindAuth,
		},
		{
			name:     "http 503 json without envelope",
			status:   503,
			body:     `{"message":"upstream down"}`,
			wantErr:  true,
			wantKind: retry.KindServer,
		},
		{
			name:     "rate limited code",
			status:   200,
			body:     `{"code":"ApiCallLimit","message":"too many"}`,
			wantErr:  true,
			wantCode: "ApiCallLimit",
			wantKind: retry.KindRateLimited,
		},
		{
			name:     "not json",
			status:   200,
			body:     `<html>`,
			wantErr:  true,
			wantCode: "InvalidResponse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeEnvelope(tt.status, []byte(tt.body), method)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeEnvelope() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *APIError", err)
			}
			if tt.wantCode != "" && apiErr.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", apiErr.Code, tt.wantCode)
			}
			if apiErr.IsTokenExpired() != tt.wantExpired {
				t.Errorf("IsTokenExpired() = %v, want %v", apiErr.IsTokenExpired(), tt.wantExpired)
			}
			if tt.wantKind != "" && retry.Classify(err) != tt.wantKind {
				t.Errorf("Classify() = %s, want %s", retry.Classify(err), tt.wantKind)
			}
		})
	}
}

func TestAPIError_StatusCode(t *testing.T) {
	e := &APIError{HTTPStatus: http.StatusBadGateway}
	if e.StatusCode() != http.StatusBadGateway {
		t.Errorf("StatusCode() = %d", e.StatusCode())
	}
	e = &APIError{Code: "InvalidParameter"}
	if e.StatusCode() != http.StatusBadRequest {
		t.Errorf("StatusCode() = %d, want 400", e.StatusCode())
	}
}
