package dto

// DouyinTokenGrant is the payload of a code exchange or refresh exchange.
type DouyinTokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	OpenID       string `json:"open_id,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// DouyinUserInfo is the platform profile of the authorized account.
type DouyinUserInfo struct {
	OpenID   string `json:"open_id"`
	UnionID  string `json:"union_id,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// DouyinVideoListRequest requests a page of platform-side videos.
type DouyinVideoListRequest struct {
	Cursor int64 `url:"cursor"`
	Count  int   `url:"count"`
}

// DouyinVideoItem is one entry of the platform video list.
type DouyinVideoItem struct {
	ItemID     string `json:"item_id"`
	Title      string `json:"title"`
	Cover      string `json:"cover,omitempty"`
	ShareURL   string `json:"share_url,omitempty"`
	CreateTime int64  `json:"create_time,omitempty"`
	Statistics struct {
		PlayCount    int64 `json:"play_count"`
		DiggCount    int64 `json:"digg_count"`
		CommentCount int64 `json:"comment_count"`
		ShareCount   int64 `json:"share_count"`
	} `json:"statistics"`
}

// DouyinVideoList is a cursor page of DouyinVideoItem.
type DouyinVideoList struct {
	Cursor  int64             `json:"cursor"`
	HasMore bool              `json:"has_more"`
	List    []DouyinVideoItem `json:"list"`
}

// DouyinTaskStatus is the raw publish-task state as reported by the platform.
// Status carries the platform's own vocabulary; mapping onto the local enum
// happens in the status tracker.
type DouyinTaskStatus struct {
	TaskID       string `json:"task_id"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	VideoID      string `json:"video_id,omitempty"`
	ShareURL     string `json:"share_url,omitempty"`
	ErrorMessage string `json:"error_msg,omitempty"`
}
