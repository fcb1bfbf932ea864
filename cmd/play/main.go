// Command play is a terminal client for the Happy Schools games: solve
// riddles, play word chain against the server, and take quizzes.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"happyschools/internal/api"
	"happyschools/internal/gameplay"
	"happyschools/internal/quiztake"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Happy Schools server URL")
	email := flag.String("email", "", "Account email (required)")
	password := flag.String("password", "", "Account password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := api.NewClient(*serverURL)

	user, err := client.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Welcome back, %s!\n", user.Name)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println()
		fmt.Println("What would you like to play?")
		fmt.Println("  1) Riddles")
		fmt.Println("  2) Word chain")
		fmt.Println("  3) Take a quiz")
		fmt.Println("  q) Quit")
		choice := readLine(reader, "> ")

		switch choice {
		case "1":
			playSession(ctx, reader, gameplay.NewSession(client.RiddleSource(), gameplay.RiddleRules()))
		case "2":
			playSession(ctx, reader, gameplay.NewSession(client.WordChainSource(), gameplay.WordChainRules()))
		case "3":
			id, err := strconv.ParseInt(readLine(reader, "Quiz ID: "), 10, 64)
			if err != nil {
				fmt.Println("That's not a quiz ID.")
				continue
			}
			takeQuiz(ctx, reader, client, id)
		case "q", "quit", "exit":
			fmt.Println("Bye!")
			return
		}
	}
}

func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return strings.TrimSpace(line)
}

func playSession(ctx context.Context, reader *bufio.Reader, session *gameplay.Session) {
	defer session.Close()

	prompt, err := session.Start(ctx)
	if err != nil {
		fmt.Printf("Could not start: %v\n", err)
		return
	}
	if prompt == nil {
		fmt.Println("Nothing to play right now.")
		return
	}

	fmt.Println("Commands: /hint /skip /restart /quit")
	showPrompt(session, prompt)

	for {
		state := session.State()
		if state.Status != gameplay.StatusActive {
			showOutcome(state)
			if readLine(reader, "Play again? (y/n) ") != "y" {
				return
			}
			prompt, err := session.Restart(ctx)
			if err != nil || prompt == nil {
				fmt.Println("Could not restart.")
				return
			}
			showPrompt(session, prompt)
			continue
		}

		input := readLine(reader, "answer> ")
		switch input {
		case "":
			continue
		case "/quit":
			return
		case "/hint":
			if hint, ok := session.Hint(); ok {
				fmt.Printf("Hint: %s\n", hint)
			} else {
				fmt.Println("No hint available.")
			}
			continue
		case "/restart":
			prompt, err := session.Restart(ctx)
			if err != nil || prompt == nil {
				fmt.Println("Could not restart.")
				return
			}
			showPrompt(session, prompt)
			continue
		case "/skip":
			result, err := session.Skip(ctx)
			if err != nil {
				fmt.Printf("Skip failed: %v\n", err)
				continue
			}
			if result == nil {
				fmt.Println("No skips left.")
				continue
			}
			if result.Answer != "" {
				fmt.Printf("The answer was: %s\n", result.Answer)
			}
			if result.NextPrompt != nil {
				showPrompt(session, result.NextPrompt)
			}
			continue
		}

		result, err := session.Submit(ctx, input)
		if err != nil {
			fmt.Printf("Could not check that, try again: %v\n", err)
			continue
		}
		if result == nil {
			continue
		}
		if result.Correct {
			fmt.Println("Correct!")
			if result.Message != "" {
				fmt.Println(result.Message)
			}
			if result.NextPrompt != nil {
				showPrompt(session, result.NextPrompt)
			}
		} else {
			fmt.Printf("Not quite. Hearts left: %d\n", result.Hearts)
			if result.Message != "" {
				fmt.Println(result.Message)
			}
		}
	}
}

func showPrompt(session *gameplay.Session, prompt *gameplay.Prompt) {
	state := session.State()
	status := fmt.Sprintf("score %d · hearts %d · skips %d", state.Score, state.Hearts, state.SkipsRemaining)
	if state.TimeLeft > 0 {
		status += fmt.Sprintf(" · %ds left", state.TimeLeft)
	}
	fmt.Printf("\n[%s]\n%s\n", status, prompt.Text)
}

func showOutcome(state gameplay.State) {
	switch state.EndReason {
	case gameplay.EndReasonWin:
		fmt.Printf("\nYou win! Final score: %d\n", state.Score)
	case gameplay.EndReasonTime:
		fmt.Printf("\nTime's up! Final score: %d\n", state.Score)
	case gameplay.EndReasonHearts:
		fmt.Printf("\nOut of hearts. Final score: %d\n", state.Score)
		if state.FinalAnswer != "" {
			fmt.Printf("The answer was: %s\n", state.FinalAnswer)
		}
	default:
		fmt.Printf("\nGame over. Final score: %d\n", state.Score)
	}
}

func takeQuiz(ctx context.Context, reader *bufio.Reader, client *api.Client, quizID int64) {
	attempt := quiztake.NewAttempt(client.Quizzes(), quizID)
	defer attempt.Close()

	if err := attempt.Load(ctx); err != nil {
		if errors.Is(err, quiztake.ErrDeadlinePassed) {
			fmt.Println("That quiz's deadline has passed.")
			return
		}
		fmt.Printf("Could not load quiz: %v\n", err)
		return
	}

	if attempt.Submitted() {
		fmt.Println("You already took this quiz.")
		printResult(attempt.Result())
		return
	}

	quiz := attempt.Quiz()
	fmt.Printf("\n%s (%d questions)\n", quiz.Title, quiz.TotalQuestions)
	if remaining, ok := attempt.SecondsRemaining(); ok {
		fmt.Printf("You have %d seconds.\n", remaining)
	}
	fmt.Println("Commands: answer <n> <A-D>, review, submit, quit")

	for i, q := range quiz.Questions {
		printQuestion(i+1, q)
	}

	for {
		if attempt.Submitted() {
			// The clock ran out while we waited for input.
			fmt.Println("\nTime's up, your answers were submitted.")
			printResult(attempt.Result())
			return
		}

		input := readLine(reader, "quiz> ")
		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit":
			return
		case "review":
			answers := attempt.Answers()
			for i, q := range quiz.Questions {
				choice := answers[q.ID]
				if choice == "" {
					choice = "-"
				}
				fmt.Printf("  %2d: %s\n", i+1, choice)
			}
			if remaining, ok := attempt.SecondsRemaining(); ok {
				fmt.Printf("  %d seconds left\n", remaining)
			}
		case "answer":
			if len(fields) != 3 {
				fmt.Println("Usage: answer <question number> <A-D>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 || n > len(quiz.Questions) {
				fmt.Println("No such question.")
				continue
			}
			choice := strings.ToUpper(fields[2])
			if len(choice) != 1 || choice < "A" || choice > "D" {
				fmt.Println("Pick A, B, C or D.")
				continue
			}
			attempt.Answer(quiz.Questions[n-1].ID, choice)
		case "submit":
			unanswered := len(quiz.Questions) - len(attempt.Answers())
			if unanswered > 0 {
				fmt.Printf("%d questions are unanswered.\n", unanswered)
			}
			if readLine(reader, "Submit now? (y/n) ") != "y" {
				continue
			}
			result, err := attempt.Submit(ctx)
			if err != nil {
				fmt.Printf("Submit failed, your answers are kept: %v\n", err)
				continue
			}
			if result != nil {
				printResult(result)
			}
			return
		default:
			fmt.Println("Commands: answer <n> <A-D>, review, submit, quit")
		}
	}
}

func printQuestion(num int, q quiztake.Question) {
	fmt.Printf("\n%d. %s\n", num, q.Text)
	fmt.Printf("   A) %s\n   B) %s\n   C) %s\n   D) %s\n", q.OptionA, q.OptionB, q.OptionC, q.OptionD)
}

func printResult(result *quiztake.Result) {
	if result == nil {
		return
	}
	fmt.Printf("Score: %d/%d (%.0f%%)\n", result.Score, result.TotalQuestions, result.Percentage)
}
