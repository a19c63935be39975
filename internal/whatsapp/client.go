package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"whatsapp-crm/internal/config"
	"whatsapp-crm/internal/database"
	"whatsapp-crm/internal/models"
)

const graphBaseURL = "https://graph.facebook.com/v19.0"

type Client struct {
	Config *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{Config: cfg}
}

// --- Message Structures ---

type GenericMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	Text             *TextObj     `json:"text,omitempty"`
	Template         *TemplateObj `json:"template,omitempty"`
}

type TextObj struct {
	Body       string `json:"body"`
	PreviewUrl bool   `json:"preview_url,omitempty"`
}

type TemplateObj struct {
	Name       string         `json:"name"`
	Language   LanguageObj    `json:"language"`
	Components []ComponentObj `json:"components,omitempty"`
}

type LanguageObj struct {
	Code string `json:"code"`
}

type ComponentObj struct {
	Type       string         `json:"type"`
	SubType    string         `json:"sub_type,omitempty"`
	Parameters []ParameterObj `json:"parameters"`
	Index      string         `json:"index,omitempty"` // For buttons
}

type ParameterObj struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TemplateList is the Graph API response for a WABA's message templates.
type TemplateList struct {
	Data []TemplateEntry `json:"data"`
}

type TemplateEntry struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Language   string          `json:"language"`
	Category   string          `json:"category"`
	Status     string          `json:"status"`
	Components json.RawMessage `json:"components"`
}

// --- Helper Functions ---

func (c *Client) sendRequest(method, url string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.Config.WhatsAppToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}

	return respBody, nil
}

// --- Messaging Methods ---

func (c *Client) SendRawMessage(orgID string, msg GenericMessage) error {
	url := fmt.Sprintf("%s/%s/messages", graphBaseURL, c.Config.PhoneNumberID)
	_, err := c.sendRequest("POST", url, msg)

	content := ""
	if msg.Text != nil {
		content = msg.Text.Body
	} else if msg.Template != nil {
		content = "Template: " + msg.Template.Name
	} else {
		content = fmt.Sprintf("%s message", msg.Type)
	}

	// Log outbound message. Store the recipient in 'sender' so conversations
	// group properly.
	go func() {
		database.DB.Create(&models.Message{
			OrgID:   orgID,
			WaID:    "outgoing-" + msg.To,
			Sender:  msg.To,
			Content: content,
			Type:    msg.Type,
			Status:  "sent",
		})
	}()

	return err
}

func (c *Client) SendMessage(orgID, to, body string) error {
	msg := GenericMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text: &TextObj{
			Body: body,
		},
	}
	return c.SendRawMessage(orgID, msg)
}

func (c *Client) SendTemplateMessage(orgID, to, templateName, languageCode string) error {
	msg := GenericMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: &TemplateObj{
			Name: templateName,
			Language: LanguageObj{
				Code: languageCode,
			},
		},
	}
	return c.SendRawMessage(orgID, msg)
}

// GetTemplates fetches the message templates of the configured WABA.
func (c *Client) GetTemplates() (*TemplateList, error) {
	url := fmt.Sprintf("%s/%s/message_templates?limit=100", graphBaseURL, c.Config.WhatsAppBusinessAccountID)
	respBody, err := c.sendRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	var list TemplateList
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("failed to parse templates response: %v", err)
	}
	return &list, nil
}
