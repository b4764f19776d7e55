package provider_test

import (
	"context"
	"fmt"
	"log"

	"paperhub/model"
	"paperhub/provider"
)

// ExampleNewProvider demonstrates creating an Ollama provider using the factory.
func ExampleNewProvider() {
	cfg := provider.Config{
		Type:    provider.ProviderTypeOllama,
		BaseURL: "http://localhost:11434",
		Model:   "qwen3:4b-instruct-2507-q4_K_M",
	}

	p, err := provider.NewProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Provider created: %T\n", p)
	// Output: Provider created: *provider.OllamaProvider
}

// ExampleNewOllamaProvider demonstrates creating an Ollama provider directly.
func ExampleNewOllamaProvider() {
	p, err := provider.NewOllamaProvider("http://localhost:11434", "llama3.1")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Current model: %s\n", p.GetModel())
	p.SetModel("llama3.2:latest")
	fmt.Printf("New model: %s\n", p.GetModel())

	// Output:
	// Current model: llama3.1
	// New model: llama3.2:latest
}

// ExampleHostedProvider_Chat streams a reply from the hosted endpoint.
//
// Not run: it needs a live server.
func ExampleHostedProvider_Chat() {
	p, err := provider.NewHostedProvider("http://localhost:8080/api/chat", nil)
	if err != nil {
		log.Fatal(err)
	}

	req := model.ChatRequest{
		Context:  "Attention Is All You Need. The dominant sequence transduction models...",
		Messages: []model.Message{model.NewMessage(model.RoleUser, "Summarize the abstract.")},
	}
	err = p.Chat(context.Background(), req, func(chunk string) error {
		fmt.Print(chunk)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}
