package dto

// LeaderboardEntry is one ranked row of the projected leaderboard.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	CollegeName string `json:"college_name"`
	CollegeCode string `json:"college_code"`
	TotalPoints int    `json:"total_points"`
}

// LeaderboardPush is the websocket frame sent to every viewer on each change.
// Data always carries the full projection, never a delta.
type LeaderboardPush struct {
	Type string             `json:"type"`
	Data []LeaderboardEntry `json:"data"`
}

// LeaderboardUpdateType identifies leaderboard push frames.
const LeaderboardUpdateType = "leaderboard_update"

// NewLeaderboardPush wraps a projection in the push envelope.
func NewLeaderboardPush(entries []LeaderboardEntry) LeaderboardPush {
	return LeaderboardPush{
		Type: LeaderboardUpdateType,
		Data: entries,
	}
}
