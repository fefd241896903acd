package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:8000"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, chat streams can run long
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func uploadPDF(path, sessionID string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := w.WriteField("session_id", sessionID); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest("POST", baseURL+"/upload/pdf", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	color.Green("Status: %s", resp.Status)
	var uploadResp map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&uploadResp)
	prettyPrint(uploadResp)
	return nil
}

func streamChat(sessionID, message string) error {
	reqBody, _ := json.Marshal(map[string]string{
		"message":    message,
		"session_id": sessionID,
	})

	resp, err := http.Post(baseURL+"/chat/stream", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	color.Green("Status: %s (session %s)", resp.Status, resp.Header.Get("X-Session-ID"))

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var ev map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			color.Red("Bad event line: %s", scanner.Text())
			continue
		}
		switch ev["type"] {
		case "status":
			color.Yellow("  [status] %v", ev["step"])
		case "token":
			fmt.Printf("%v ", ev["content"])
		case "done":
			fmt.Println()
			color.Green("  [done] %v tokens in %.2fs", ev["token_count"], ev["elapsed_seconds"])
		case "error":
			fmt.Println()
			color.Red("  [error] %v", ev["content"])
		}
	}
	return scanner.Err()
}

func main() {
	color.Cyan("🚀 Starting Document QA API Smoke Test\n")

	sessionID := "smoke-test-session"
	if len(os.Args) > 2 {
		sessionID = os.Args[2]
	}

	// 1. Health
	color.Yellow("\n1. Health Check")
	resp, body, err := sendRequest("GET", "/health", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	fmt.Println(string(body))

	// 2. Upload a PDF (optional, pass a path as the first argument)
	if len(os.Args) > 1 {
		color.Yellow("\n2. Upload PDF: %s", os.Args[1])
		if err := uploadPDF(os.Args[1], sessionID); err != nil {
			color.Red("Failed: %v", err)
		}
	} else {
		color.Yellow("\n2. Upload skipped (no PDF path given)")
	}

	// 3. Read session state
	color.Yellow("\n3. Read Session State")
	resp, body, err = sendRequest("GET", "/sessions/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var sessResp map[string]interface{}
	json.Unmarshal(body, &sessResp)
	prettyPrint(sessResp)

	// 4. Stream a chat answer
	color.Yellow("\n4. Stream Chat")
	if err := streamChat(sessionID, "Summarize the uploaded document in one sentence."); err != nil {
		color.Red("Failed: %v", err)
	}

	// 5. List sessions
	color.Yellow("\n5. List Sessions")
	resp, body, err = sendRequest("GET", "/sessions", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var listResp []map[string]interface{}
	json.Unmarshal(body, &listResp)
	prettyPrint(listResp)

	// 6. Push a synthetic activity through the pipeline
	color.Yellow("\n6. Trigger Debug Activity")
	resp, body, err = sendRequest("POST", "/debug/trigger-activity", map[string]interface{}{
		"type":       "TEST_EVENT",
		"session_id": sessionID,
		"payload":    map[string]interface{}{"source": "smoke_api"},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var debugResp map[string]interface{}
	json.Unmarshal(body, &debugResp)
	prettyPrint(debugResp)

	color.Cyan("\n✅ Smoke Test Complete")
}
