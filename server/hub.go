package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"phc/calculator"
	"phc/deque"
	"phc/model"
	"phc/postprocess"
)

// Hub is the state of one websocket session. Requests are handled on one
// goroutine, all writes go through handleResponse.
type Hub struct {
	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	out  chan model.Msg
	done chan struct{}

	mu      sync.Mutex
	cfg     calculator.Config
	calc    *calculator.CalcHub // running sweep, nil when idle
	history *deque.ArrDeque[model.SliceData]
	wg      sync.WaitGroup
}

func NewHub(conn *websocket.Conn, base calculator.Config, history int) *Hub {
	return &Hub{
		conn:    conn,
		msg:     make(chan model.Msg, 10),
		out:     make(chan model.Msg, 10),
		done:    make(chan struct{}),
		cfg:     base,
		history: deque.NewArrDeque[model.SliceData](history),
	}
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.out:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithError(err).WithField("type", reply.Type).Warn("write message")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case model.TypeEnv:
				h.setEnv(msg.Content)
			case model.TypeStart:
				h.start()
			case model.TypeStop:
				h.stop()
				h.reply(model.TypeStopped, "stopped")
			case model.TypeHistory:
				h.replay()
			default:
				h.reply(model.TypeError, fmt.Sprintf("no such type %q", msg.Type))
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) setEnv(content string) {
	var env model.Env
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		h.reply(model.TypeError, fmt.Sprintf("bad env: %v", err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	cfg, err := calculator.FromEnv(h.cfg, env)
	if err != nil {
		h.reply(model.TypeError, err.Error())
		return
	}
	h.cfg = cfg
	log.WithFields(cfg.Fields()).Info("env set")
	h.reply(model.TypeEnvSet, "env is set")
}

func (h *Hub) start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.calc != nil {
		h.reply(model.TypeError, "a sweep is already running")
		return
	}
	sweep, err := calculator.NewSweep(h.cfg)
	if err != nil {
		h.reply(model.TypeError, err.Error())
		return
	}
	calc := calculator.NewCalcHub(4)
	sweep.Attach(calc)
	h.calc = calc
	h.history = deque.NewArrDeque[model.SliceData](h.history.Cap())
	h.reply(model.TypeStarted, "started")

	h.wg.Add(1)
	go h.run(sweep, calc)
}

func (h *Hub) run(sweep *calculator.Sweep, calc *calculator.CalcHub) {
	defer h.wg.Done()
	cfg := sweep.Config()

	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for s := range calc.Slices {
			data := sliceData(s, cfg.Na, cfg.Nb)
			h.mu.Lock()
			h.history.PushEvict(data)
			h.mu.Unlock()
			h.send(model.TypeSlice, data)
		}
	}()

	res, err := sweep.Run(context.Background())
	calc.Close()
	<-forwarded

	h.mu.Lock()
	h.calc = nil
	h.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		h.reply(model.TypeError, err.Error())
	}
	if res != nil {
		h.send(model.TypeSummary, summaryData(res))
	}
}

func (h *Hub) stop() {
	h.mu.Lock()
	calc := h.calc
	h.mu.Unlock()
	if calc != nil {
		calc.StopSignal()
	}
}

func (h *Hub) replay() {
	h.mu.Lock()
	items := h.history.Items()
	h.mu.Unlock()
	for _, data := range items {
		h.send(model.TypeSlice, data)
	}
	h.reply(model.TypeHistory, fmt.Sprintf("%d slices", len(items)))
}

// close stops a running sweep and waits for it before releasing the
// writer.
func (h *Hub) close() {
	h.stop()
	h.wg.Wait()
	close(h.done)
}

func (h *Hub) reply(typ, content string) {
	select {
	case h.out <- model.Msg{Type: typ, Content: content}:
	case <-h.done:
	}
}

func (h *Hub) send(typ string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("type", typ).Error("encode message")
		h.reply(model.TypeError, err.Error())
		return
	}
	h.reply(typ, string(data))
}

func sliceData(s calculator.SliceResult, na, nb float64) model.SliceData {
	bands, points := s.Omega.Dims()
	omega := make([][]float64, bands)
	for b := range omega {
		omega[b] = make([]float64, points)
		for p := range omega[b] {
			if v := s.Omega.At(b, p); !math.IsNaN(v) {
				omega[b][p] = v
			}
		}
	}
	data := model.SliceData{
		RadiusIndex: s.RadiusIndex,
		KzIndex:     s.KzIndex,
		Radius:      s.Radius,
		Kz:          s.Kz,
		Fill:        s.Fill,
		Omega:       omega,
		Gaps:        []model.Gap{},
		Failed:      s.Failed,
	}
	for _, e := range postprocess.EstimateSlice(s, na, nb) {
		data.Gaps = append(data.Gaps, model.Gap{
			Lower:  e.Lower,
			Bottom: e.Bottom.Frequency,
			Top:    e.Top.Frequency,
			NEff:   e.Top.NEff,
			Theta:  e.Top.Theta,
			Regime: e.Top.Regime.String(),
		})
	}
	return data
}

func summaryData(res *calculator.Result) model.SummaryData {
	path := res.Lattice.Path
	return model.SummaryData{
		Lattice:   res.Lattice.Kind.String(),
		Kx:        path.Kx,
		Ky:        path.Ky,
		KP:        path.KP,
		KL:        path.KL,
		Radii:     res.Radii,
		Kzs:       res.Kzs,
		Bands:     res.Bands,
		Samples:   res.Report.Samples,
		Failures:  len(res.Report.Failures),
		Elapsed:   res.Report.Elapsed.String(),
		Cancelled: res.Report.Cancelled,
	}
}
