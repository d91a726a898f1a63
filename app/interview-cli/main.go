// Interactive breed-matching interview against the in-process engine.
//
// Run: go run ./app/interview-cli --domain domains/dog_breeds
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"pawScout/business/content"
	"pawScout/business/interview"
	"pawScout/domain"
	"pawScout/pkg/logger"
)

func main() {
	domainDir := pflag.String("domain", "domains/dog_breeds", "domain content directory")
	topK := pflag.Int("top", 5, "ranking size shown after each answer")
	epsilon := pflag.Float64("epsilon", 0.01, "stop once the best split falls below this")
	maxQuestions := pflag.Int("max-questions", 0, "hard cap on questions asked (0 = no cap)")
	outFile := pflag.String("out", "", "write the final profile document to this file")
	pflag.Parse()

	logger.Init("development")

	dom, err := content.LoadDomain(*domainDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load domain: %v\n", err)
		os.Exit(1)
	}

	svc, err := interview.NewService(dom, nil, nil, interview.Config{TopK: *topK, Epsilon: *epsilon})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build engine: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	sess, err := svc.StartSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start session: %v\n", err)
		os.Exit(1)
	}

	names := make(map[string]string, len(dom.Breeds))
	for _, b := range dom.Breeds {
		if b.Name != "" {
			names[b.ID] = b.Name
		} else {
			names[b.ID] = b.ID
		}
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Loaded %d breeds, %d needs.\n\n", len(dom.Breeds), len(dom.Needs))

	asked := 0
	for {
		if *maxQuestions > 0 && asked >= *maxQuestions {
			break
		}
		nq, err := svc.NextQuestion(ctx, sess.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "selector failed: %v\n", err)
			os.Exit(1)
		}
		if nq.Done {
			break
		}

		fmt.Printf("Question %d: %s\n", asked+1, nq.Question.Text)
		answer, quit := readAnswer(reader)
		if quit {
			break
		}
		asked++

		if err := svc.Answer(ctx, sess.ID, nq.Question.NeedID, answer, nq.Question.ID); err != nil {
			fmt.Fprintf(os.Stderr, "failed to record answer: %v\n", err)
			continue
		}
		printTop(ctx, svc, sess.ID, *topK, names)
	}

	fmt.Println("\nFinal ranking:")
	printTop(ctx, svc, sess.ID, *topK, names)
	printExplanation(ctx, svc, sess.ID, names)

	if *outFile != "" {
		if err := saveProfile(ctx, svc, sess.ID, *outFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save profile: %v\n", err)
		} else {
			fmt.Printf("\nProfile written to %s\n", *outFile)
		}
	}
}

func saveProfile(ctx context.Context, svc *interview.Service, sessionID, path string) error {
	doc, err := svc.ExportProfile(ctx, sessionID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readAnswer(reader *bufio.Reader) (domain.Answer, bool) {
	fmt.Println("  1/y yes   2/n no   3/? don't know   4/- don't care   q quit")
	for {
		fmt.Print("  > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", true
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "1", "y", "yes":
			return domain.AnswerYes, false
		case "2", "n", "no":
			return domain.AnswerNo, false
		case "3", "?":
			return domain.AnswerUnknown, false
		case "4", "-":
			return domain.AnswerIndependent, false
		case "q", "quit", "exit":
			return "", true
		default:
			fmt.Println("  invalid input, try again")
		}
	}
}

func printTop(ctx context.Context, svc *interview.Service, sessionID string, topK int, names map[string]string) {
	matches, err := svc.Matches(ctx, sessionID, topK)
	if err != nil {
		return
	}
	fmt.Println()
	for i, m := range matches {
		bar := strings.Repeat("#", int(m.Score*20))
		fmt.Printf("  %d. %-30s %.2f %s\n", i+1, names[m.BreedID], m.Score, bar)
	}
	fmt.Println()
}

func printExplanation(ctx context.Context, svc *interview.Service, sessionID string, names map[string]string) {
	explanations, err := svc.Explanation(ctx, sessionID, 3)
	if err != nil || len(explanations) == 0 {
		return
	}
	fmt.Println("Why these breeds:")
	for _, e := range explanations {
		fmt.Printf("  %s (%d/9)\n", names[e.BreedID], e.ScoreBand)
		for _, p := range e.Pros {
			fmt.Printf("    + %s (%.2f)\n", p.NeedID, p.Similarity)
		}
		for _, c := range e.Cons {
			fmt.Printf("    - %s (%.2f)\n", c.NeedID, c.Similarity)
		}
		for _, c := range e.Conflicts {
			fmt.Printf("    ! %s: conflicting answers\n", c.NeedID)
		}
	}
}
