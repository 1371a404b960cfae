package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ewittry/parley/pkg/llm"
	"github.com/ewittry/parley/pkg/transcript"
	"github.com/ewittry/parley/repl"
)

var _ = Describe("Chat Command", func() {
	var (
		ctx      context.Context
		tmpDir   string
		captured []llm.ChatRequest
		srv      *httptest.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		tmpDir = GinkgoT().TempDir()
		// Keep the implicit config and db locations inside the sandbox
		GinkgoT().Setenv("HOME", tmpDir)

		captured = nil
		mux := http.NewServeMux()
		mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
			var req llm.ChatRequest
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			captured = append(captured, req)
			json.NewEncoder(w).Encode(llm.ChatResponse{
				Model:     req.Model,
				CreatedAt: time.Now(),
				Message:   llm.Message{Role: "assistant", Content: "Hi there!"},
				Done:      true,
			})
		})
		srv = httptest.NewServer(mux)
		DeferCleanup(srv.Close)
	})

	runChat := func(input string, args ...string) (string, error) {
		cmd := NewChatCmd()
		var out bytes.Buffer
		cmd.SetIn(strings.NewReader(input))
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"--url", srv.URL, "--plain"}, args...))
		err := cmd.ExecuteContext(ctx)
		return out.String(), err
	}

	It("greets and says goodbye without calling the provider", func() {
		out, err := runChat("quit\n")
		Expect(err).NotTo(HaveOccurred())

		Expect(out).To(ContainSubstring("Welcome! I am your AI assistant."))
		Expect(out).To(ContainSubstring("Goodbye!"))
		Expect(captured).To(BeEmpty())
	})

	It("runs a full exchange against the provider", func() {
		out, err := runChat("Hello\nquit\n", "--model", "test-model")
		Expect(err).NotTo(HaveOccurred())

		Expect(out).To(ContainSubstring("Assistant: Hi there!"))
		Expect(captured).To(HaveLen(1))
		Expect(captured[0].Model).To(Equal("test-model"))
		Expect(captured[0].Messages).To(HaveLen(1))
		Expect(captured[0].Messages[0].Content).To(Equal("Hello"))
	})

	It("reads the model from the config file when no flag is given", func() {
		configPath := filepath.Join(tmpDir, "config.toml")
		Expect(os.WriteFile(configPath, []byte("model = \"from-file\"\n"), 0o644)).To(Succeed())

		_, err := runChat("Hello\nquit\n", "--config", configPath)
		Expect(err).NotTo(HaveOccurred())

		Expect(captured).To(HaveLen(1))
		Expect(captured[0].Model).To(Equal("from-file"))
	})

	It("lets flags override the config file", func() {
		configPath := filepath.Join(tmpDir, "config.toml")
		Expect(os.WriteFile(configPath, []byte("model = \"from-file\"\n"), 0o644)).To(Succeed())

		_, err := runChat("Hello\nquit\n", "--config", configPath, "--model", "from-flag")
		Expect(err).NotTo(HaveOccurred())

		Expect(captured).To(HaveLen(1))
		Expect(captured[0].Model).To(Equal("from-flag"))
	})

	It("records the transcript when --db is set", func() {
		dbPath := filepath.Join(tmpDir, "chats.db")

		_, err := runChat("Hello\nquit\n", "--db", dbPath)
		Expect(err).NotTo(HaveOccurred())

		storer, err := transcript.NewSQLiteStorer(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer storer.Close()

		heads, err := storer.Heads(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(heads).To(HaveLen(1))

		history, err := storer.History(ctx, heads[0].Hash)
		Expect(err).NotTo(HaveOccurred())
		Expect(history).To(HaveLen(2))
		Expect(history[0].Content).To(Equal("Hello"))
		Expect(history[1].Content).To(Equal("Hi there!"))
	})

	It("exits with a completion error when the provider fails", func() {
		srv.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(llm.ErrorResponse{Error: "quota exceeded"})
		})

		out, err := runChat("Hello\n")
		Expect(err).To(MatchError(repl.ErrCompletion))

		Expect(out).To(ContainSubstring("Error:"))
		Expect(out).To(ContainSubstring("quota exceeded"))
	})

	It("rejects an out-of-range temperature", func() {
		_, err := runChat("quit\n", "--temperature", "3.5")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("temperature"))
	})
})
