package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cocowutech/placement/internal/adapt"
	"github.com/cocowutech/placement/internal/cefr"
	"github.com/cocowutech/placement/internal/config"
	"github.com/cocowutech/placement/internal/evaluate"
	"github.com/cocowutech/placement/internal/item"
	"github.com/cocowutech/placement/internal/llm"
	"github.com/cocowutech/placement/internal/session"
	"github.com/cocowutech/placement/internal/store"
	"github.com/cocowutech/placement/internal/track"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an adaptive placement session",
	RunE:  runSession,
}

func init() {
	runCmd.Flags().String("track", "", "Track to assess: reading, listening, speaking, vocabulary, writing")
	runCmd.Flags().String("level", "", "Starting CEFR level (A1-C2); default depends on track")
}

func runSession(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	trackFlag, _ := cmd.Flags().GetString("track")
	if trackFlag == "" {
		return fmt.Errorf("--track is required (one of: %s)", trackList())
	}
	tr, err := track.Parse(trackFlag)
	if err != nil {
		return err
	}

	var startLevel *cefr.Level
	if levelFlag, _ := cmd.Flags().GetString("level"); levelFlag != "" {
		l, err := cefr.Parse(levelFlag)
		if err != nil {
			return err
		}
		startLevel = &l
	}

	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	events := db.EventRepo()

	provider, err := llm.NewProvider(ctx, cfg.LLM, events)
	if err != nil {
		return err
	}

	svc := session.NewService(
		session.NewMemoryStore(),
		item.New(provider, item.DefaultConfig()),
		evaluate.NewScorer(provider),
		session.WithEvents(events),
		session.WithTimeout(cfg.SessionTimeout()),
	)

	fmt.Printf("Starting %s placement (%s)...\n\n", tr, provider.ModelID())
	st, cur, err := svc.Start(ctx, tr, startLevel)
	if err != nil {
		return err
	}

	in := bufio.NewReader(os.Stdin)
	lastPassage := ""
	for cur != nil {
		if cur.Passage != "" && cur.Passage != lastPassage {
			fmt.Printf("--- Passage ---\n%s\n\n", cur.Passage)
			lastPassage = cur.Passage
		}
		printItem(tr, cur)

		sub, err := readSubmission(in, tr)
		if err != nil {
			return err
		}

		res, err := svc.Submit(ctx, st.ID, sub)
		if err != nil {
			if errors.Is(err, evaluate.ErrInvalidOutcome) || errors.Is(err, adapt.ErrInvalidOutcome) {
				fmt.Printf("That answer could not be accepted: %v\n\n", err)
				continue
			}
			return err
		}

		printResult(tr, res)
		if res.Finished {
			printReport(res.Report)
			return nil
		}
		cur = res.Next
	}
	return nil
}

func printItem(tr track.Track, cur *session.Current) {
	fmt.Printf("[%d/%d] (%s)\n", cur.Position, cur.Total, cur.Level)
	it := cur.Item

	switch tr {
	case track.Listening:
		fmt.Printf("Clip: %s\n%s\n\n", it.Title, it.Transcript)
	case track.Vocabulary:
		if it.Context != "" {
			fmt.Printf("%s\n\n", it.Context)
		}
	case track.Speaking:
		fmt.Printf("%s\n\nPrepare for %ds, then speak for %ds.\n", it.Text, it.PrepSeconds, it.RecordSeconds)
		if it.Guidance != "" {
			fmt.Printf("Guidance: %s\n", it.Guidance)
		}
		fmt.Println()
		return
	case track.Writing:
		fmt.Printf("%s\n\n", it.Text)
		return
	}

	fmt.Printf("%s\n", it.Text)
	for i, c := range it.Choices {
		fmt.Printf("  %c) %s\n", 'a'+i, c)
	}
	fmt.Println()
}

func readSubmission(in *bufio.Reader, tr track.Track) (session.Submission, error) {
	switch tr {
	case track.Writing:
		fmt.Println("Type your text. End with a single '.' on its own line:")
		text, err := readBlock(in)
		return session.Submission{Text: text}, err
	case track.Speaking:
		fmt.Println("Type what you would say. End with a single '.' on its own line:")
		text, err := readBlock(in)
		return session.Submission{Text: text}, err
	}

	for {
		fmt.Print("Your answer (a-d): ")
		line, err := in.ReadString('\n')
		if err != nil {
			return session.Submission{}, err
		}
		line = strings.ToLower(strings.TrimSpace(line))
		if len(line) == 1 && line[0] >= 'a' && line[0] <= 'd' {
			return session.Submission{Choice: int(line[0] - 'a')}, nil
		}
		fmt.Println("Please answer with a, b, c or d.")
	}
}

// readBlock reads lines until a single "." line.
func readBlock(in *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		line, err := in.ReadString('\n')
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "." {
			return strings.TrimSpace(b.String()), nil
		}
		b.WriteString(line)
	}
}

func printResult(tr track.Track, res *session.SubmitResult) {
	switch tr {
	case track.Writing, track.Speaking:
		if res.Score != nil {
			fmt.Printf("Score: %d (band %s)\n", res.Score.Overall, res.Score.Band)
			if res.Score.Feedback != "" {
				fmt.Printf("Feedback: %s\n", res.Score.Feedback)
			}
		}
	default:
		if res.Correct {
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Not quite — the answer was %c.\n", 'a'+res.CorrectIndex)
		}
		if res.Rationale != "" {
			fmt.Printf("Why: %s\n", res.Rationale)
		}
	}
	fmt.Printf("Level is now %s.\n\n", res.Level)
}

func printReport(r *session.FinalReport) {
	fmt.Println("=== Session complete ===")
	fmt.Printf("Track:       %s\n", r.Track)
	fmt.Printf("Start level: %s\n", r.StartLevel)
	fmt.Printf("Final level: %s (%s)\n", r.FinalLevel, r.FinalLevel.Exam())
	fmt.Printf("Items:       %d\n", r.Asked)

	switch r.Track {
	case track.Writing, track.Speaking:
		fmt.Printf("Final score: %d\n", r.FinalScore)
		fmt.Printf("Content %d | Organization %d | Language control %d\n",
			r.ContentAvg, r.OrganizationAvg, r.LanguageControlAvg)
	default:
		fmt.Printf("Correct:     %d/%d\n", r.Correct, r.Asked)
	}
}

func trackList() string {
	names := make([]string, 0, len(track.AllTracks()))
	for _, t := range track.AllTracks() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
