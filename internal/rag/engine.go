// Package rag builds in-memory retrieval indexes over crawled news documents
// and answers questions against them with the OpenAI API: the document is
// split into chunks, each chunk is embedded, and a query retrieves the most
// similar chunks as context for a chat completion.
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// chunkRuneLimit approximates the original pipeline's 512-token sentence
	// splitter; the corpus is largely CJK so runes, not words, are the unit.
	chunkRuneLimit = 1500
	// topK is how many chunks are handed to the completion as context.
	topK = 4
)

// Engine answers questions over a single document.
type Engine interface {
	BuildIndex(ctx context.Context, document string) (*Index, error)
	Query(ctx context.Context, index *Index, question string) (string, error)
}

// Index is an immutable embedded view of one document. Safe for concurrent
// queries once built.
type Index struct {
	chunks []chunk
}

type chunk struct {
	text      string
	embedding []float32
}

// OpenAIEngine implements Engine against the OpenAI embeddings and chat APIs.
type OpenAIEngine struct {
	client      *openai.Client
	model       string
	embedModel  openai.EmbeddingModel
	temperature float32
	logger      *zap.Logger
}

// NewOpenAIEngine creates an engine. model is the chat model used for
// answering (e.g. gpt-4).
func NewOpenAIEngine(apiKey, model string, logger *zap.Logger) *OpenAIEngine {
	return &OpenAIEngine{
		client:      openai.NewClient(apiKey),
		model:       model,
		embedModel:  openai.SmallEmbedding3,
		temperature: 0.1,
		logger:      logger,
	}
}

// BuildIndex splits the document into chunks and embeds them in one request.
func (e *OpenAIEngine) BuildIndex(ctx context.Context, document string) (*Index, error) {
	texts := splitChunks(document, chunkRuneLimit)
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.embedModel,
	})
	if err != nil {
		e.logger.Error("embedding request failed",
			zap.Int("chunks", len(texts)),
			zap.Error(err))
		return nil, fmt.Errorf("embed document: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(texts), len(resp.Data))
	}

	chunks := make([]chunk, len(texts))
	for i, text := range texts {
		chunks[i] = chunk{text: text, embedding: resp.Data[i].Embedding}
	}
	return &Index{chunks: chunks}, nil
}

// Query embeds the question, retrieves the most similar chunks, and asks the
// chat model to answer from that context alone.
func (e *OpenAIEngine) Query(ctx context.Context, index *Index, question string) (string, error) {
	if index == nil || len(index.chunks) == 0 {
		return "", fmt.Errorf("index not built")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{question},
		Model: e.embedModel,
	})
	if err != nil {
		e.logger.Error("question embedding failed", zap.Error(err))
		return "", fmt.Errorf("embed question: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("empty embedding response")
	}

	retrieved := strings.Join(index.topChunks(resp.Data[0].Embedding, topK), "\n\n---\n\n")
	prompt := fmt.Sprintf(`Answer the question using only the news content below. Quote original article links from the content when they are relevant.

News content:
%s

Question: %s`, retrieved, question)

	completion, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: e.temperature,
	})
	if err != nil {
		e.logger.Error("chat completion failed", zap.Error(err))
		return "", fmt.Errorf("query completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// topChunks returns the texts of the k chunks most similar to the query
// embedding, best first.
func (idx *Index) topChunks(query []float32, k int) []string {
	type scored struct {
		text  string
		score float64
	}
	ranked := make([]scored, 0, len(idx.chunks))
	for _, c := range idx.chunks {
		ranked = append(ranked, scored{text: c.text, score: cosineSimilarity(query, c.embedding)})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if k > len(ranked) {
		k = len(ranked)
	}
	texts := make([]string, k)
	for i := 0; i < k; i++ {
		texts[i] = ranked[i].text
	}
	return texts
}

// splitChunks breaks a document into sentence-aligned chunks of at most
// maxRunes runes. Sentences longer than the budget become their own chunk.
func splitChunks(document string, maxRunes int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			chunks = append(chunks, text)
		}
		current.Reset()
		currentLen = 0
	}

	for _, sentence := range splitSentences(document) {
		n := len([]rune(sentence))
		if currentLen > 0 && currentLen+n > maxRunes {
			flush()
		}
		current.WriteString(sentence)
		currentLen += n
	}
	flush()
	return chunks
}

// splitSentences cuts text at sentence terminators (ASCII and CJK) and
// newlines, keeping the terminator with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		switch r {
		case '.', '!', '?', '。', '！', '？', '\n':
			if s := current.String(); strings.TrimSpace(s) != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := current.String(); strings.TrimSpace(s) != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// cosineSimilarity computes similarity between two embeddings. Mismatched or
// zero vectors score 0 rather than erroring; they simply rank last.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
