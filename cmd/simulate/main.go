package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/assistant/v1"

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

	client := &http.Client{} // No timeout, LLM turns can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func sendTurn(sessionID, chat string) {
	turnReq := map[string]interface{}{
		"session_id": sessionID,
		"chat":       chat,
	}
	resp, body, err := sendRequest("POST", "/chat", turnReq)
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("Status: %s", resp.Status)

	var turnResp map[string]interface{}
	json.Unmarshal(body, &turnResp)
	if data, ok := turnResp["data"].(map[string]interface{}); ok {
		fmt.Printf("Reply: %s\n", data["reply"])
		fmt.Printf("Focus: %v | Language: %v | InFlow: %v\n", data["focus_model"], data["language_code"], data["in_flow"])
	} else {
		prettyPrint(turnResp)
	}
}

func main() {
	color.Cyan("🚀 Starting TV Assistant Conversation Simulation\n")

	// 1. Create Session
	color.Yellow("\n1. Create Session")
	resp, body, err := sendRequest("POST", "/session", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var sessionID string
	var createResp map[string]interface{}
	json.Unmarshal(body, &createResp)
	if data, ok := createResp["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(string); ok {
			sessionID = id
			fmt.Printf("Created Session ID: %s\n", sessionID)
		}
	}
	if sessionID == "" {
		color.Red("No session ID returned, aborting")
		os.Exit(1)
	}

	// 2. Problem without a model, should ask for one
	color.Yellow("\n2. Describe a problem without a model")
	sendTurn(sessionID, "My TV has no picture but I can hear sound")

	// 3. Provide the model, should run a targeted search
	color.Yellow("\n3. Provide the model number")
	sendTurn(sessionID, "the model is EL-32DS4200")

	// 4. Follow-up inside the flow
	color.Yellow("\n4. Ask a follow-up on the steps")
	sendTurn(sessionID, "What do you mean by checking the backlight?")

	// 5. Media request for the focused model
	color.Yellow("\n5. Ask for the motherboard diagram")
	sendTurn(sessionID, "Can you show me the motherboard image?")

	// 6. General aside mid-flow
	color.Yellow("\n6. General aside mid-flow")
	sendTurn(sessionID, "By the way, what does HDMI stand for?")

	// 7. Resolve the problem
	color.Yellow("\n7. Report the problem as solved")
	sendTurn(sessionID, "That fixed it, thanks!")

	// 8. History check
	color.Yellow("\n8. Fetch chat history")
	resp, body, err = sendRequest("GET", "/session/"+sessionID+"/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var histResp map[string]interface{}
		json.Unmarshal(body, &histResp)
		if data, ok := histResp["data"].([]interface{}); ok {
			fmt.Printf("History entries: %d\n", len(data))
		} else {
			prettyPrint(histResp)
		}
	}

	// 9. Cleanup
	color.Yellow("\n9. Delete session")
	resp, body, err = sendRequest("DELETE", "/session/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
	}

	color.Cyan("\n✅ Simulation Complete")
}
