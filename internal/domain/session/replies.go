package session

import (
	"fmt"
	"strings"

	"github.com/scorecast/scorecast/internal/adapters/repository"
	"github.com/scorecast/scorecast/internal/domain/ranking"
)

// Reply texts. Outputs are plain strings; the transport decides how to
// render them (message, button caption, ...).
const (
	msgAskName          = "Welcome! Please enter your name:"
	msgMenu             = "Choose an action: profile, view matches, view my prediction, leaderboard."
	msgUseMenu          = "Please use the menu to navigate."
	msgStepPending      = "Please finish the current step first."
	msgNoActiveMatches  = "No matches are open for predictions."
	msgInvalidScore     = "Invalid score, enter it in the format 2-1."
	msgAlreadyPredicted = `You already predicted this match. Use "view my prediction" to see it.`
	msgWalkthroughDone  = "Prediction accepted, good luck!"
	msgNoPredictions    = "You have no predictions yet."
	msgNoLeaderboard    = "No leaderboard data yet."
	msgProfileNotFound  = "Profile not found."
	msgGenericFailure   = "Something went wrong, please try again."
)

func promptMatch(name string) string {
	return fmt.Sprintf("Enter your prediction for: %s\nFormat: X-Y (e.g. 2-1)", name)
}

func thanksReply(name string) string {
	return fmt.Sprintf("Thanks, %s!", name)
}

func profileReply(name string, userID int64, points, rank int) string {
	return fmt.Sprintf("Profile:\nName: %s\nID: %d\nPoints: %d\nLeaderboard position: %d",
		name, userID, points, rank)
}

func predictionsReply(views []repository.PredictionView) string {
	var b strings.Builder
	b.WriteString("Your predictions:\n")
	for _, v := range views {
		fmt.Fprintf(&b, "%s: %s\n", v.MatchName, v.Score)
	}
	return strings.TrimRight(b.String(), "\n")
}

func leaderboardReply(entries []ranking.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d:\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. %s - %d points\n", e.Rank, e.DisplayName, e.Points)
	}
	return strings.TrimRight(b.String(), "\n")
}
