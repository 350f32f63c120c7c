package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/rdd6584/blogqa/pkg/infra/providers"
)

const (
	defaultAPIVersion = "2024-02-15-preview"
	cognitiveScope    = "https://cognitiveservices.azure.com/.default"
	httpClientTimeout = 120 * time.Second
)

type TokenSource func(ctx context.Context) (string, error)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage providers.Usage `json:"usage"`
}

type client struct {
	httpClient *http.Client
	token      TokenSource
}

func NewAzureClient() providers.Client {
	return NewAzureClientWith(&http.Client{Timeout: httpClientTimeout}, getAzureADToken)
}

func NewAzureClientWith(httpClient *http.Client, token TokenSource) providers.Client {
	return &client{
		httpClient: httpClient,
		token:      token,
	}
}

// Ask calls an Azure OpenAI chat deployment. config.Model is the deployment
// name. Authentication uses the api-key header unless UseIdentity is set, in
// which case an Entra ID token from the default credential chain is sent.
func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	azureCreds := config.Credentials.Azure
	if azureCreds == nil || azureCreds.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if config.Model == "" {
		return nil, providers.ErrMissingModel
	}

	var authHeader, authValue string
	if azureCreds.UseIdentity {
		token, err := c.token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Azure AD token: %w", err)
		}
		authHeader, authValue = "Authorization", "Bearer "+token
	} else {
		if config.Credentials.ApiKey == "" {
			return nil, providers.ErrMissingAPIKey
		}
		authHeader, authValue = "api-key", config.Credentials.ApiKey
	}

	apiVersion := defaultAPIVersion
	if azureCreds.ApiVersion != "" {
		apiVersion = azureCreds.ApiVersion
	}
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimSuffix(azureCreds.Endpoint, "/"),
		config.Model,
		apiVersion,
	)

	reqBody := chatRequest{
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
	}
	if config.SystemPrompt != "" {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "system", Content: config.SystemPrompt})
	}
	reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "user", Content: prompt})

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authHeader, authValue)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 status: %d\n%s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, providers.ErrNoCompletion
	}

	id := parsed.ID
	if id == "" {
		id = fmt.Sprintf("azure-%d", time.Now().UnixNano())
	}
	return &providers.CompletionResponse{
		ID:       id,
		Model:    config.Model,
		Response: parsed.Choices[0].Message.Content,
		Usage:    parsed.Usage,
	}, nil
}

func getAzureADToken(ctx context.Context) (string, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create default credential: %w", err)
	}
	token, err := cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{cognitiveScope},
	})
	if err != nil {
		return "", err
	}
	return token.Token, nil
}
