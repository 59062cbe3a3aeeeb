package packets

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Email string  `json:"email" binding:"required,email"`
	Name  *string `json:"name"`
}

type GenreRequest struct {
	Name      string   `json:"name" binding:"required"`
	SubGenres []string `json:"sub_genres"`
}

type StationRequest struct {
	Name        string   `json:"name" binding:"required"`
	StreamURL   string   `json:"stream_url" binding:"required,url"`
	Description string   `json:"description"`
	GenreID     *string  `json:"genre_id"`
	SubGenres   []string `json:"sub_genres"`
	LogoURL     string   `json:"logo_url"`
	Bitrate     int      `json:"bitrate"`
	Language    string   `json:"language"`
	Region      string   `json:"region"`
	Tags        []string `json:"tags"`
	AdType      string   `json:"ad_type"`
	Active      *bool    `json:"active"`
	Favorite    bool     `json:"favorite"`
}

type PlayerAppRequest struct {
	Name              string   `json:"name" binding:"required"`
	Platforms         []string `json:"platforms"`
	TransferServer    string   `json:"transfer_server"`
	TransferUsername  string   `json:"transfer_username"`
	TransferPassword  string   `json:"transfer_password"`
	TransferProtocol  string   `json:"transfer_protocol"`
	TransferTimeoutMS int      `json:"transfer_timeout_ms"`
	AdsEnabled        bool     `json:"ads_enabled"`
	AdNetworkCode     string   `json:"ad_network_code"`
	PlacementPreroll  string   `json:"placement_preroll"`
	PlacementMidroll  string   `json:"placement_midroll"`
	PlacementRewarded string   `json:"placement_rewarded"`
	VideoAdSize       string   `json:"video_ad_size"`
}

type ExportProfileRequest struct {
	Name        string   `json:"name" binding:"required"`
	GenreIDs    []string `json:"genre_ids"`
	StationIDs  []string `json:"station_ids"`
	SubGenres   []string `json:"sub_genres"`
	PlayerAppID *string  `json:"player_app_id"`
	Schedule    *string  `json:"schedule"`
}

type RunExportRequest struct {
	Archive bool `json:"archive"`
	Upload  bool `json:"upload"`
}
