package dto

// StreamInfoResponse отдается по /api/streams/:username
type StreamInfoResponse struct {
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	StreamKey string `json:"stream_key"`
	StreamURL string `json:"stream_url"`
	StreamUID string `json:"stream_uid"`
}

// UserListEntry описывает строку публичного списка стримеров
type UserListEntry struct {
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	IsLive    bool   `json:"is_live"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type BanRequest struct {
	BannedUser string `json:"banned_user" binding:"required"`
}

type BannedUserEntry struct {
	BannedUsername string `json:"banned_username"`
}

type ProfileUpdateRequest struct {
	Nickname string `json:"nickname" binding:"required,max=50"`
}
