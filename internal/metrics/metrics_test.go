package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// counterValue は指定名のカウンタの値をラベル指定付きで取り出す。
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) (float64, bool) {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := true
			for k, v := range labels {
				found := false
				for _, pair := range m.GetLabel() {
					if pair.GetName() == k && pair.GetValue() == v {
						found = true
						break
					}
				}
				if !found {
					matched = false
					break
				}
			}
			if matched {
				return m.GetCounter().GetValue(), true
			}
		}
	}
	return 0, false
}

// TestRecordRegistration_IncrementsCounterPerRole は登録カウンタがロール別に増加することを検証する。
func TestRecordRegistration_IncrementsCounterPerRole(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration("User")
	c.RecordRegistration("User")
	c.RecordRegistration("Admin")

	userCount, ok := counterValue(t, reg, "jobboard_registrations_total", map[string]string{"role": "User"})
	if !ok {
		t.Fatal("jobboard_registrations_total{role=User} metric not found")
	}
	if userCount != 2 {
		t.Errorf("registrations_total{role=User} = %v, want 2", userCount)
	}

	adminCount, ok := counterValue(t, reg, "jobboard_registrations_total", map[string]string{"role": "Admin"})
	if !ok {
		t.Fatal("jobboard_registrations_total{role=Admin} metric not found")
	}
	if adminCount != 1 {
		t.Errorf("registrations_total{role=Admin} = %v, want 1", adminCount)
	}
}

// TestRecordLoginSuccess_IncrementsCounter はログイン成功カウンタが増加することを検証する。
func TestRecordLoginSuccess_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginSuccess()

	val, ok := counterValue(t, reg, "jobboard_login_success_total", nil)
	if !ok {
		t.Fatal("jobboard_login_success_total metric not found")
	}
	if val != 2 {
		t.Errorf("login_success_total = %v, want 2", val)
	}
}

// TestRecordLoginFailure_IncrementsCounter はログイン失敗カウンタが増加することを検証する。
func TestRecordLoginFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginFailure()

	val, ok := counterValue(t, reg, "jobboard_login_fail_total", nil)
	if !ok {
		t.Fatal("jobboard_login_fail_total metric not found")
	}
	if val != 1 {
		t.Errorf("login_fail_total = %v, want 1", val)
	}
}

// TestRecordTokenRejected_IncrementsCounterPerReason はトークン拒否カウンタが理由別に増加することを検証する。
func TestRecordTokenRejected_IncrementsCounterPerReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenRejected("expired")
	c.RecordTokenRejected("expired")
	c.RecordTokenRejected("malformed")

	expired, ok := counterValue(t, reg, "jobboard_token_rejected_total", map[string]string{"reason": "expired"})
	if !ok {
		t.Fatal("jobboard_token_rejected_total{reason=expired} metric not found")
	}
	if expired != 2 {
		t.Errorf("token_rejected_total{reason=expired} = %v, want 2", expired)
	}

	malformed, ok := counterValue(t, reg, "jobboard_token_rejected_total", map[string]string{"reason": "malformed"})
	if !ok {
		t.Fatal("jobboard_token_rejected_total{reason=malformed} metric not found")
	}
	if malformed != 1 {
		t.Errorf("token_rejected_total{reason=malformed} = %v, want 1", malformed)
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	ok200, found := counterValue(t, reg, "jobboard_http_status_total", map[string]string{"status_code": "200"})
	if !found {
		t.Fatal("jobboard_http_status_total{status_code=200} metric not found")
	}
	if ok200 != 2 {
		t.Errorf("http_status_total{status_code=200} = %v, want 2", ok200)
	}

	notFound, found := counterValue(t, reg, "jobboard_http_status_total", map[string]string{"status_code": "404"})
	if !found {
		t.Fatal("jobboard_http_status_total{status_code=404} metric not found")
	}
	if notFound != 1 {
		t.Errorf("http_status_total{status_code=404} = %v, want 1", notFound)
	}
}

// TestRecordLoginLatency_ObservesHistogram はログインレイテンシのヒストグラムが観測されることを検証する。
func TestRecordLoginLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginLatency(150 * time.Millisecond)
	c.RecordLoginLatency(250 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "jobboard_login_latency_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample count = %d, want 2", h.GetSampleCount())
			}
			want := 0.15 + 0.25
			if got := h.GetSampleSum(); got < want-0.001 || got > want+0.001 {
				t.Errorf("sample sum = %v, want ~%v", got, want)
			}
		}
	}
	if !found {
		t.Error("jobboard_login_latency_seconds metric not found")
	}
}

// TestHandler_ServesMetrics はHandlerがPrometheusテキスト形式でメトリクスを返すことを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLoginSuccess()

	handler := Handler(reg)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	if !strings.Contains(bodyStr, "jobboard_login_success_total") {
		t.Error("response should contain jobboard_login_success_total metric")
	}
}
