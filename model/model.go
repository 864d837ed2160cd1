package model

// Msg is the envelope of every websocket frame. Content carries the JSON
// payload of the message type, or plain text for acknowledgements.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// requests
const (
	TypeEnv     = "env"
	TypeStart   = "start"
	TypeStop    = "stop"
	TypeHistory = "history"
)

// responses
const (
	TypeEnvSet  = "envSet"
	TypeStarted = "started"
	TypeStopped = "stopped"
	TypeSlice   = "slice"
	TypeSummary = "summary"
	TypeError   = "error"
)

// Env is the sweep configuration sent by a client. Zero values keep the
// server defaults, except kz bounds which are taken as given.
type Env struct {
	Na           float64 `json:"na"`
	Nb           float64 `json:"nb"`
	Lattice      string  `json:"lattice"`
	Nr           int     `json:"nr"`
	RMin         float64 `json:"r_min"`
	RMax         float64 `json:"r_max"`
	RNum         int     `json:"r_num"`
	KzMin        float64 `json:"kz_min"`
	KzMax        float64 `json:"kz_max"`
	KzNum        int     `json:"kz_num"`
	Order        int     `json:"order"`
	Tolerance    float64 `json:"tolerance"`
	Workers      int     `json:"workers"`
	Coefficients string  `json:"coefficients"`
	Samples      int     `json:"samples"`
}

// SliceData is one (radius, kz) band diagram. Failed points are listed in
// Failed and zeroed in Omega since JSON has no NaN.
type SliceData struct {
	RadiusIndex int         `json:"radius_index"`
	KzIndex     int         `json:"kz_index"`
	Radius      float64     `json:"radius"`
	Kz          float64     `json:"kz"`
	Fill        float64     `json:"fill"`
	Omega       [][]float64 `json:"omega"` // [band][point]
	Gaps        []Gap       `json:"gaps"`
	Failed      []int       `json:"failed"`
}

type Gap struct {
	Lower  int     `json:"lower"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
	NEff   float64 `json:"n_eff"`
	Theta  float64 `json:"theta"`
	Regime string  `json:"regime"`
}

type SummaryData struct {
	Lattice   string    `json:"lattice"`
	Kx        []float64 `json:"kx"`
	Ky        []float64 `json:"ky"`
	KP        []int     `json:"kp"`
	KL        []string  `json:"kl"`
	Radii     []float64 `json:"radii"`
	Kzs       []float64 `json:"kzs"`
	Bands     int       `json:"bands"`
	Samples   int       `json:"samples"`
	Failures  int       `json:"failures"`
	Elapsed   string    `json:"elapsed"`
	Cancelled bool      `json:"cancelled"`
}
