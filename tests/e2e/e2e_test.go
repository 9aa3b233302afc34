//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"
)

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ingredientResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type recipeResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Servings int    `json:"servings"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type fileResponse struct {
	FileName string `json:"file_name"`
}

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("CULINARYNOTES_BASE_URL", "http://localhost:8080")
	waitForReady(t, baseURL)

	suffix := time.Now().UnixNano()

	var category categoryResponse
	status := doJSON(t, http.MethodPost, baseURL+"/api/categories", map[string]any{
		"name": fmt.Sprintf("e2e-category-%d", suffix),
	}, &category)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from category create, got %d", status)
	}

	var dup errorResponse
	status = doJSON(t, http.MethodPost, baseURL+"/api/categories", map[string]any{
		"name": category.Name,
	}, &dup)
	if status != http.StatusConflict || dup.Code != "DUPLICATE_KEY" {
		t.Fatalf("expected 409 DUPLICATE_KEY for repeated category, got %d %q", status, dup.Code)
	}

	ingredientName := fmt.Sprintf("e2e-salt-%d", suffix)
	var grams, pinch ingredientResponse
	if status := doJSON(t, http.MethodPost, baseURL+"/api/ingredients", map[string]any{
		"name": ingredientName, "unit": "grams",
	}, &grams); status != http.StatusCreated {
		t.Fatalf("expected 201 from ingredient create, got %d", status)
	}
	if status := doJSON(t, http.MethodPost, baseURL+"/api/ingredients", map[string]any{
		"name": ingredientName, "unit": "pinch",
	}, &pinch); status != http.StatusCreated {
		t.Fatalf("same name with another unit must be accepted, got %d", status)
	}

	var user userResponse
	if status := doJSON(t, http.MethodPost, baseURL+"/api/users", map[string]any{
		"username": fmt.Sprintf("e2e%d", suffix),
		"email":    fmt.Sprintf("e2e%d@example.com", suffix),
		"password": "correct horse battery",
	}, &user); status != http.StatusCreated {
		t.Fatalf("expected 201 from user create, got %d", status)
	}

	var recipe recipeResponse
	if status := doJSON(t, http.MethodPost, baseURL+"/api/recipes", map[string]any{
		"title": fmt.Sprintf("e2e soup %d", suffix),
	}, &recipe); status != http.StatusCreated {
		t.Fatalf("expected 201 from recipe create, got %d", status)
	}
	if recipe.Servings != 1 {
		t.Fatalf("expected default servings 1, got %d", recipe.Servings)
	}

	name := uploadFile(t, baseURL, "photo.jpg", []byte("not really a jpeg"))
	assertDownload(t, baseURL, name, "not really a jpeg")

	if status := doJSON(t, http.MethodDelete, baseURL+"/api/files/"+name, nil, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 from file delete, got %d", status)
	}
	if status := doJSON(t, http.MethodDelete, baseURL+"/api/files/"+name, nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 from second file delete, got %d", status)
	}

	for _, path := range []string{
		fmt.Sprintf("/api/recipes/%d", recipe.ID),
		fmt.Sprintf("/api/users/%d", user.ID),
		fmt.Sprintf("/api/ingredients/%d", grams.ID),
		fmt.Sprintf("/api/ingredients/%d", pinch.ID),
		fmt.Sprintf("/api/categories/%d", category.ID),
	} {
		if status := doJSON(t, http.MethodDelete, baseURL+path, nil, nil); status != http.StatusNoContent {
			t.Fatalf("expected 204 from DELETE %s, got %d", path, status)
		}
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func waitForReady(t *testing.T, baseURL string) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("server at %s did not become ready", baseURL)
}

func uploadFile(t *testing.T, baseURL, filename string, content []byte) string {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/files", &body)
	if err != nil {
		t.Fatalf("create upload request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 from upload, got %d", resp.StatusCode)
	}
	var out fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if out.FileName == "" {
		t.Fatalf("upload response missing file_name")
	}
	return out.FileName
}

func assertDownload(t *testing.T, baseURL, name, want string) {
	t.Helper()

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(baseURL + "/api/files/" + name)
	if err != nil {
		t.Fatalf("download request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from download, got %d", resp.StatusCode)
	}
	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(got) != want {
		t.Fatalf("downloaded %q, want %q", got, want)
	}
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && resp.ContentLength != 0 {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}
