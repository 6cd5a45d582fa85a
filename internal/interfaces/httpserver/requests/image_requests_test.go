package requests_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"petal-studio/server/internal/domain/images"
	"petal-studio/server/internal/interfaces/httpserver/requests"
)

const maxUpload = 1 << 20

type filePart struct {
	field string
	name  string
	data  []byte
}

func multipartContext(t *testing.T, fields map[string]string, files []filePart) *gin.Context {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	for _, part := range files {
		fw, err := writer.CreateFormFile(part.field, part.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(part.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/edit", &body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	return c
}

func editFields() map[string]string {
	return map[string]string{
		"prompt": "replace the vase",
		"model":  "gpt-image-1",
		"size":   "1024x1024",
		"n":      "2",
	}
}

func TestParseEditRequest(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	t.Run("repeated images field keeps order", func(t *testing.T) {
		c := multipartContext(t, editFields(), []filePart{
			{"images", "a.png", img},
			{"images", "b.png", img},
			{"images", "c.png", img},
		})

		req, err := requests.ParseEditRequest(c, maxUpload)
		if err != nil {
			t.Fatal(err)
		}
		if len(req.Images) != 3 {
			t.Fatalf("expected 3 images, got %d", len(req.Images))
		}
		for i, want := range []string{"a.png", "b.png", "c.png"} {
			if req.Images[i].Filename != want {
				t.Fatalf("upload order not preserved: %+v", req.Images)
			}
		}
		if req.Model != images.ModelGPTImage || req.N != 2 {
			t.Fatalf("scalar fields not decoded: %+v", req)
		}
	})

	t.Run("mask is optional", func(t *testing.T) {
		c := multipartContext(t, editFields(), []filePart{{"images", "a.png", img}})
		req, err := requests.ParseEditRequest(c, maxUpload)
		if err != nil {
			t.Fatal(err)
		}
		if req.Mask != nil {
			t.Fatalf("no mask was sent: %+v", req.Mask)
		}

		c = multipartContext(t, editFields(), []filePart{
			{"images", "a.png", img},
			{"mask", "mask.png", img},
		})
		req, err = requests.ParseEditRequest(c, maxUpload)
		if err != nil {
			t.Fatal(err)
		}
		if req.Mask == nil || req.Mask.Filename != "mask.png" {
			t.Fatalf("mask not decoded: %+v", req.Mask)
		}
	})

	t.Run("more than sixteen images rejected", func(t *testing.T) {
		files := make([]filePart, 17)
		for i := range files {
			files[i] = filePart{"images", "img.png", img}
		}
		c := multipartContext(t, editFields(), files)
		if _, err := requests.ParseEditRequest(c, maxUpload); err == nil || !strings.Contains(err.Error(), "at most 16") {
			t.Fatalf("expected image count rejection, got %v", err)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		tests := []struct {
			name    string
			drop    string
			wantErr string
		}{
			{"no prompt", "prompt", "prompt is required"},
			{"no model", "model", "model is required"},
			{"no size", "size", "size is required"},
			{"no n", "n", "n is required"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fields := editFields()
				delete(fields, tt.drop)
				c := multipartContext(t, fields, []filePart{{"images", "a.png", img}})
				if _, err := requests.ParseEditRequest(c, maxUpload); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected %q, got %v", tt.wantErr, err)
				}
			})
		}
	})

	t.Run("no images rejected", func(t *testing.T) {
		c := multipartContext(t, editFields(), nil)
		if _, err := requests.ParseEditRequest(c, maxUpload); err == nil || !strings.Contains(err.Error(), "at least one") {
			t.Fatalf("expected missing images error, got %v", err)
		}
	})

	t.Run("compression without lossy format rejected", func(t *testing.T) {
		fields := editFields()
		fields["outputCompression"] = "80"
		c := multipartContext(t, fields, []filePart{{"images", "a.png", img}})
		if _, err := requests.ParseEditRequest(c, maxUpload); err == nil || !strings.Contains(err.Error(), "jpeg or webp") {
			t.Fatalf("expected cross-field rejection, got %v", err)
		}

		fields["outputFormat"] = "webp"
		c = multipartContext(t, fields, []filePart{{"images", "a.png", img}})
		req, err := requests.ParseEditRequest(c, maxUpload)
		if err != nil {
			t.Fatal(err)
		}
		if req.OutputCompression == nil || *req.OutputCompression != 80 {
			t.Fatalf("compression not decoded: %+v", req)
		}
	})

	t.Run("oversized upload rejected", func(t *testing.T) {
		big := make([]byte, 64)
		c := multipartContext(t, editFields(), []filePart{{"images", "big.png", big}})
		if _, err := requests.ParseEditRequest(c, 16); err == nil || !strings.Contains(err.Error(), "max upload size") {
			t.Fatalf("expected size rejection, got %v", err)
		}
	})
}

func TestParseVariationRequest(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	t.Run("valid request", func(t *testing.T) {
		c := multipartContext(t, map[string]string{"n": "3", "size": "512x512", "responseFormat": "url"},
			[]filePart{{"image", "src.png", img}})

		req, err := requests.ParseVariationRequest(c, maxUpload)
		if err != nil {
			t.Fatal(err)
		}
		if req.N != 3 || req.Size != "512x512" || req.ResponseFormat != "url" {
			t.Fatalf("fields not decoded: %+v", req)
		}
		if req.Image.Filename != "src.png" {
			t.Fatalf("image not decoded: %+v", req.Image)
		}
	})

	t.Run("image file required", func(t *testing.T) {
		c := multipartContext(t, map[string]string{"n": "1", "size": "512x512"}, nil)
		if _, err := requests.ParseVariationRequest(c, maxUpload); err == nil || !strings.Contains(err.Error(), "image file is required") {
			t.Fatalf("expected missing image error, got %v", err)
		}
	})

	t.Run("n bounds enforced", func(t *testing.T) {
		c := multipartContext(t, map[string]string{"n": "11", "size": "512x512"},
			[]filePart{{"image", "src.png", img}})
		if _, err := requests.ParseVariationRequest(c, maxUpload); err == nil || !strings.Contains(err.Error(), "between 1 and 10") {
			t.Fatalf("expected n rejection, got %v", err)
		}
	})
}

func TestBatchFlowerGenerateRequest_ToDomain(t *testing.T) {
	req := requests.BatchFlowerGenerateRequest{
		TemplateID: "bouquet",
		Items: []requests.BatchItemRequest{
			{ReferenceImageID: "ref-1", Variables: map[string]string{"flowerType": "rose"}},
			{ReferenceImageID: "ref-2", Variables: map[string]string{"flowerType": "lily"}},
		},
		Config: requests.FlowerConfig{
			Model: "gpt-image-1",
			Size:  "1024x1024",
			N:     1,
		},
	}

	domainReq := req.ToDomain()
	if domainReq.TemplateID != "bouquet" {
		t.Fatalf("template id not carried: %+v", domainReq)
	}
	if len(domainReq.Items) != 2 || domainReq.Items[1].ReferenceImageID != "ref-2" {
		t.Fatalf("items not converted: %+v", domainReq.Items)
	}
	if domainReq.Config.Model != images.ModelGPTImage {
		t.Fatalf("config not converted: %+v", domainReq.Config)
	}
	if domainReq.Config.TemplateID != "bouquet" {
		t.Fatalf("config must inherit the batch template id: %+v", domainReq.Config)
	}
}

func TestBatchFlowerGenerateRequest_Binding(t *testing.T) {
	jsonContext := func(body string) *gin.Context {
		gin.SetMode(gin.TestMode)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/api/batch-flower-generate", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		return c
	}

	t.Run("config without a template id binds", func(t *testing.T) {
		body := `{
			"templateId": "single-flower",
			"items": [
				{"referenceImageId": "ref-1", "variables": {"flowerType": "rose"}},
				{"referenceImageId": "ref-2", "variables": {"flowerType": "lily"}}
			],
			"config": {"model": "gpt-image-1", "size": "1024x1024", "n": 1}
		}`

		var req requests.BatchFlowerGenerateRequest
		if err := jsonContext(body).ShouldBindJSON(&req); err != nil {
			t.Fatalf("documented batch body must bind: %v", err)
		}
		if req.TemplateID != "single-flower" || len(req.Items) != 2 || req.Config.Model != "gpt-image-1" {
			t.Fatalf("fields not decoded: %+v", req)
		}
	})

	t.Run("missing envelope template id rejected", func(t *testing.T) {
		body := `{
			"items": [{"referenceImageId": "ref-1"}],
			"config": {"model": "gpt-image-1", "size": "1024x1024", "n": 1}
		}`

		var req requests.BatchFlowerGenerateRequest
		if err := jsonContext(body).ShouldBindJSON(&req); err == nil {
			t.Fatal("templateId on the envelope is required")
		}
	})

	t.Run("item without a reference image rejected", func(t *testing.T) {
		body := `{
			"templateId": "single-flower",
			"items": [{"variables": {"flowerType": "rose"}}],
			"config": {"model": "gpt-image-1", "size": "1024x1024", "n": 1}
		}`

		var req requests.BatchFlowerGenerateRequest
		if err := jsonContext(body).ShouldBindJSON(&req); err == nil {
			t.Fatal("referenceImageId is required per item")
		}
	})
}
