package main

import (
	"log"
	"time"
)

const (
	recorderBatchSize  = 64
	recorderFlushEvery = 2 * time.Second
)

// Recorder drains the simulation event feed into SQLite in batches and
// persists match results. It runs off the game loop; a slow disk never
// stalls a tick.
type Recorder struct {
	db   *DB
	feed *EventFeed
	done chan struct{}
}

// NewRecorder starts draining the feed. A nil db disables event recording
// but the Recorder still accepts results (logged and dropped).
func NewRecorder(db *DB, feed *EventFeed) *Recorder {
	r := &Recorder{db: db, feed: feed, done: make(chan struct{})}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)

	batch := make([]EventRow, 0, recorderBatchSize)
	ticker := time.NewTicker(recorderFlushEvery)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 || r.db == nil {
			return
		}
		if err := r.db.InsertEvents(batch); err != nil {
			log.Printf("event batch insert failed: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev, ok := <-r.feed.Events():
			if !ok {
				flush()
				return
			}
			batch = append(batch, EventRow{
				MatchUUID: ev.MatchID,
				Kind:      ev.Kind,
				PlayerID:  ev.PlayerID,
				Team:      ev.Team,
				X:         ev.Pos.X,
				Y:         ev.Pos.Y,
				Z:         ev.Pos.Z,
				Data:      ev.Data,
				At:        float64(ev.At.UnixMilli()) / 1000.0,
			})
			if len(batch) >= recorderBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// RecordResult persists a finished match: the match row, each player's line,
// and lifetime stat updates for authenticated pilots.
func (r *Recorder) RecordResult(res MatchResult) {
	if r.db == nil {
		log.Printf("match %s finished: team %d wins %d-%d", res.MatchID, res.WinnerTeam, res.Scores[0], res.Scores[1])
		return
	}
	matchID, err := r.db.RecordMatch(res.MatchID, res.Duration, res.WinnerTeam, res.Scores)
	if err != nil {
		log.Printf("record match failed: %v", err)
		return
	}
	for _, p := range res.Players {
		if err := r.db.RecordMatchPlayer(matchID, p.AuthPlayerID, p.Name, p.Team, p.Kills, p.Deaths, p.Captures); err != nil {
			log.Printf("record match player failed: %v", err)
		}
		if p.AuthPlayerID != 0 {
			won := p.Team == res.WinnerTeam
			if err := r.db.ApplyMatchStats(p.AuthPlayerID, p.Kills, p.Deaths, p.Captures, won); err != nil {
				log.Printf("apply match stats failed: %v", err)
			}
		}
	}
}
