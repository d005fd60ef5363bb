// Command glossia is a terminal front end for the assisted-reading engine.
// It loads a text from a file argument or stdin and steps through it
// sentence by sentence, showing simplifications and difficult words.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/config"
	"github.com/abelbrown/glossia/internal/engine"
	"github.com/abelbrown/glossia/internal/history"
	"github.com/abelbrown/glossia/internal/imgsearch"
	"github.com/abelbrown/glossia/internal/llm"
	"github.com/abelbrown/glossia/internal/logging"
	"github.com/abelbrown/glossia/internal/vocab"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.Log.Format, cfg.Log.Level); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	dataDir, err := config.HomeDir()
	if err != nil {
		log.Fatalf("Failed to resolve data directory: %v", err)
	}

	vocabManager, err := vocab.NewManager(dataDir, cfg.Vocab.PromotionThreshold)
	if err != nil {
		log.Fatalf("Failed to load vocabulary: %v", err)
	}

	sessions, err := history.Open(filepath.Join(dataDir, "history.db"))
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}
	defer sessions.Close()

	llmProvider, err := llm.New(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to create LLM provider: %v", err)
	}
	imageProvider, err := imgsearch.New(cfg.Image)
	if err != nil {
		log.Fatalf("Failed to create image provider: %v", err)
	}

	eng := engine.New(llmProvider, imageProvider, vocabManager, engine.WithHistory(sessions))
	defer eng.FinishSession()

	text, err := readText()
	if err != nil {
		log.Fatalf("Failed to read text: %v", err)
	}
	if err := eng.LoadText(text); err != nil {
		log.Fatalf("Failed to load text: %v", err)
	}

	fmt.Printf("glossia - %d sentences loaded (provider: %s)\n", eng.TotalSentences(), llmProvider.ProviderName())
	fmt.Println("commands: n(ext), p(rev), s(implify), w <word>, i <word>, k <word>, stats, q(uit)")

	repl(eng)
}

func readText() (string, error) {
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func repl(eng *engine.Engine) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	showCurrent(ctx, eng)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "q", "quit":
			return
		case "n", "next":
			if !eng.Next() {
				fmt.Println("(end of text)")
			} else {
				showCurrent(ctx, eng)
			}
		case "p", "prev":
			if !eng.Previous() {
				fmt.Println("(beginning of text)")
			} else {
				showCurrent(ctx, eng)
			}
		case "s", "simplify", "":
			showCurrent(ctx, eng)
		case "w":
			if arg == "" {
				fmt.Println("usage: w <word>")
				break
			}
			sentence, _ := eng.CurrentSentence()
			eng.AddManualWord(arg)
			meaning, err := eng.GetWordMeaning(ctx, arg, sentence)
			if err != nil {
				fmt.Println("error:", apperr.UserMessage(err))
				break
			}
			fmt.Printf("%s: %s\n", arg, meaning)
		case "i":
			if arg == "" {
				fmt.Println("usage: i <word>")
				break
			}
			sentence, _ := eng.CurrentSentence()
			meaning, _ := eng.GetWordMeaning(ctx, arg, sentence)
			results, err := eng.OptimizeAndFetchImages(ctx, arg, sentence, meaning)
			if err != nil {
				fmt.Println("error:", apperr.UserMessage(err))
				break
			}
			for _, r := range results {
				fmt.Printf("  %s (%s)\n", r.Title, r.URL)
			}
		case "k":
			if arg == "" {
				fmt.Println("usage: k <word>")
				break
			}
			if err := eng.AddKnownWord(arg); err != nil {
				fmt.Println("error:", apperr.UserMessage(err))
				break
			}
			fmt.Printf("%s marked known (%d known words)\n", arg, eng.KnownWordsCount())
		case "stats":
			s := eng.SessionStats()
			cs := eng.CacheStats()
			fmt.Printf("read %d sentences, learned %d words (%.1f sent/min)\n",
				s.SentencesRead, s.WordsLearned, s.SentencesPerMinute)
			fmt.Printf("cache: %d simplified, %d meanings, %d images, %d queries\n",
				cs.Simplified, cs.WordMeanings, cs.Images, cs.OptimizedQueries)
		default:
			fmt.Println("unknown command:", cmd)
		}
		fmt.Print("> ")
	}
}

func showCurrent(ctx context.Context, eng *engine.Engine) {
	sentence, ok := eng.CurrentSentence()
	if !ok {
		fmt.Println("(no text loaded)")
		return
	}
	fmt.Printf("[%d/%d] %s\n", eng.Position()+1, eng.TotalSentences(), sentence)

	resp, err := eng.ProcessSentence(ctx, sentence)
	if err != nil {
		fmt.Println("error:", apperr.UserMessage(err))
		return
	}
	fmt.Println("  →", resp.Simplified)

	for _, w := range eng.GetCombinedWords(eng.FilterKnownWords(resp.Words)) {
		fmt.Printf("    %s: %s\n", w.Word, w.Meaning)
		if _, _, err := eng.AddWordEncounter(w.Word); err != nil {
			logging.Warn("encounter tracking failed", "word", w.Word, "error", err)
		}
	}

	eng.PreprocessNext(ctx, engine.DefaultLookahead)
}
