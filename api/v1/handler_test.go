// Package v1_test contains tests for the API v1 handlers
package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snippetly/internal/config"
	"snippetly/internal/storage"
	"snippetly/internal/testsupport"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func uploadPreview(t *testing.T, app *fiber.App, fields map[string]string) map[string]any {
	t.Helper()

	body, contentType := multipartBody(t, fields)
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, 30000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var respBody map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&respBody))
	return respBody
}

func TestUploadHandler(t *testing.T) {
	t.Run("stores content and returns a preview link", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		respBody := uploadPreview(t, app, map[string]string{
			"content":  "<h1>hello</h1>",
			"fileType": "html",
		})

		assert.Equal(t, true, respBody["success"])
		id, _ := respBody["previewId"].(string)
		assert.NotEmpty(t, id)
		assert.Contains(t, respBody["previewUrl"], "/preview/"+id)
	})

	t.Run("accepts the legacy html field name", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		respBody := uploadPreview(t, app, map[string]string{
			"html": "<p>legacy client</p>",
		})
		assert.Equal(t, true, respBody["success"])
	})

	t.Run("rejects empty content", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		body, contentType := multipartBody(t, map[string]string{"fileType": "html"})
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var respBody map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respBody))
		assert.Equal(t, "content required", respBody["error"])
	})

	t.Run("accepts uploads without fetch metadata headers", func(t *testing.T) {
		// Scripts and server-to-server clients send no Sec-Fetch-Site
		// header; the upload API must not reject them.
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		body, contentType := multipartBody(t, map[string]string{"content": "<p>from curl</p>"})
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("accepts cross-site browser uploads", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		body, contentType := multipartBody(t, map[string]string{"content": "<p>embedded form</p>"})
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		req.Header.Set("Origin", "https://elsewhere.example.com")

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("rejects oversize content", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)

		// The size limit is captured when routes are mounted, so shrink
		// it before building the app.
		cfg := config.GetConfig()
		originalLimit := cfg.MaxContentBytes
		cfg.MaxContentBytes = 64
		t.Cleanup(func() { cfg.MaxContentBytes = originalLimit })

		app := testsupport.CreateTestApp(t, db)

		body, contentType := multipartBody(t, map[string]string{
			"content": strings.Repeat("x", 65),
		})
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var respBody map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respBody))
		assert.Equal(t, "content too large", respBody["error"])
	})

	t.Run("accepts urlencoded forms", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		form := url.Values{}
		form.Set("content", "body { color: blue }")
		form.Set("fileType", "css")

		req := httptest.NewRequest("POST", "/api/upload", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestPreviewHandler(t *testing.T) {
	t.Run("serves uploaded html verbatim", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		content := "<!DOCTYPE html><html><body><h1>shared</h1></body></html>"
		respBody := uploadPreview(t, app, map[string]string{"content": content})
		id := respBody["previewId"].(string)

		req := httptest.NewRequest("GET", "/preview/"+id, nil)
		req.Header.Set("User-Agent", chromeUA)
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, content, string(body))
	})

	t.Run("returns the branded page for unknown ids", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		req := httptest.NewRequest("GET", "/preview/no-such-preview", nil)
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "404")
		assert.Contains(t, string(body), "expired")
	})

	t.Run("serves legacy raw html values", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		store := storage.NewSQLiteStore(db, testsupport.GetLogger())
		legacy := "<html><body>written before envelopes</body></html>"
		require.NoError(t, store.Put(context.Background(), "legacy-id", legacy, time.Hour))

		req := httptest.NewRequest("GET", "/preview/legacy-id", nil)
		req.Header.Set("User-Agent", chromeUA)
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, legacy, string(body))
	})
}

func TestStatsHandler(t *testing.T) {
	t.Run("aggregates views across requests", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		respBody := uploadPreview(t, app, map[string]string{"content": "<h1>tracked</h1>"})
		id := respBody["previewId"].(string)

		for _, visitor := range []string{"203.0.113.1", "203.0.113.2"} {
			req := httptest.NewRequest("GET", "/preview/"+id, nil)
			req.Header.Set("User-Agent", chromeUA)
			req.Header.Set("Referer", "https://www.news.example.com/post")
			req.Header.Set("X-Forwarded-For", visitor)
			resp, err := app.Test(req, 30000)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		}

		req := httptest.NewRequest("GET", "/api/stats/"+id, nil)
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var statsBody map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&statsBody))
		assert.Equal(t, true, statsBody["success"])
		assert.Equal(t, id, statsBody["previewId"])
		assert.Equal(t, "html", statsBody["fileType"])

		stats := statsBody["stats"].(map[string]any)
		assert.Equal(t, float64(2), stats["views"])
		assert.Equal(t, float64(2), stats["uniqueVisitors"], "cardinality, never the hash list")

		referrers := stats["referrers"].(map[string]any)
		assert.Equal(t, float64(2), referrers["news.example.com"])

		userAgents := stats["userAgents"].(map[string]any)
		assert.Equal(t, float64(2), userAgents["Chrome"])

		// The pseudonymous visitor hashes must never appear anywhere in
		// the response.
		raw, err := json.Marshal(statsBody)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "203.0.113.1")
	})

	t.Run("returns 404 for unknown ids", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		req := httptest.NewRequest("GET", "/api/stats/missing", nil)
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var respBody map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respBody))
		assert.Equal(t, "not found", respBody["error"])
	})

	t.Run("reports legacy raw values as corrupt", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateTestApp(t, db)

		store := storage.NewSQLiteStore(db, testsupport.GetLogger())
		require.NoError(t, store.Put(context.Background(), "legacy-id", "<html>raw</html>", time.Hour))

		req := httptest.NewRequest("GET", "/api/stats/legacy-id", nil)
		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var respBody map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respBody))
		assert.Equal(t, "corrupt data", respBody["error"])
	})
}
