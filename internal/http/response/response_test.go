package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildPagination(t *testing.T) {
	got := BuildPagination(2, 20, 41)
	if got.TotalPage != 3 || got.Page != 2 || got.PageSize != 20 || got.Total != 41 {
		t.Fatalf("unexpected pagination: %+v", got)
	}
	if BuildPagination(1, 0, 5).TotalPage != 0 {
		t.Fatalf("zero page size should yield zero pages")
	}
}

func TestErrorWithDataAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")

	ErrorWithData(c, CodeConflict, "duplicate", gin.H{"existing_order": gin.H{"order_no": "ORD-1"}})

	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var body struct {
		StatusCode int                    `json:"status_code"`
		Msg        string                 `json:"msg"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.StatusCode != CodeConflict || body.Data["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if _, ok := body.Data["existing_order"]; !ok {
		t.Fatalf("payload should be kept alongside request id")
	}
}
