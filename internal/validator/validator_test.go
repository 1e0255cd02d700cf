package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type sampleRequest struct {
	Major string `json:"major" binding:"required"`
	Mode  string `json:"mode" binding:"omitempty,mode"`
}

func bindBody(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req sampleRequest
	return Bind(c, &req)
}

func TestBind(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{name: "合法请求", body: `{"major":"23kg","mode":"uncapped"}`},
		{name: "中文模式名", body: `{"major":"23kg","mode":"综测"}`},
		{name: "缺少专业", body: `{"mode":"capped"}`, wantFields: []string{"major"}},
		{name: "未知模式", body: `{"major":"23kg","mode":"fast"}`, wantFields: []string{"mode"}},
		{name: "非法JSON", body: `{`, wantFields: []string{"detail"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := bindBody(t, tc.body)
			if len(tc.wantFields) == 0 {
				if errs != nil {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			for _, f := range tc.wantFields {
				if errs[f] == "" {
					t.Fatalf("want error on %q got %v", f, errs)
				}
			}
		})
	}
}

func TestBind_ModeMessageTranslated(t *testing.T) {
	errs := bindBody(t, `{"major":"23kg","mode":"fast"}`)
	if !strings.Contains(errs["mode"], "capped") {
		t.Fatalf("unexpected message: %q", errs["mode"])
	}
}
