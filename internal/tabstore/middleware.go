package tabstore

import (
	"encoding/json"
	"fmt"

	"github.com/nikbrunner/tabscope/internal/storage"
	"go.uber.org/zap"
)

// Namespace and key of the persisted tab snapshot.
const (
	SnapshotNamespace = "tabs"
	snapshotKey       = "state"
)

// Snapshot persists the committed state after every successful action. When
// the snapshot cannot be written the action is rolled back and the write
// error returned, so a failed Dispatch never leaves a change behind.
func Snapshot(kv storage.KV) Middleware {
	return func(s *Store, next Dispatch) Dispatch {
		return func(a Action) error {
			before := cloneState(s.current())
			if err := next(a); err != nil {
				return err
			}
			if err := writeSnapshot(kv, s.current()); err != nil {
				s.state = before
				return err
			}
			return nil
		}
	}
}

func writeSnapshot(kv storage.KV, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode tab snapshot: %w", err)
	}
	if err := kv.Set(SnapshotNamespace, snapshotKey, string(data)); err != nil {
		return fmt.Errorf("write tab snapshot: %w", err)
	}
	return nil
}

// Load reads the last snapshot written by Snapshot. A missing snapshot yields
// an empty state.
func Load(kv storage.KV) (State, error) {
	raw, ok, err := kv.Get(SnapshotNamespace, snapshotKey)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{}, nil
	}

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, fmt.Errorf("decode tab snapshot: %w", err)
	}
	return st, nil
}

// Log records every action and its outcome.
func Log(logger *zap.Logger) Middleware {
	return func(s *Store, next Dispatch) Dispatch {
		return func(a Action) error {
			fields := []zap.Field{zap.String("action", a.Name())}
			switch a := a.(type) {
			case AddTab:
				fields = append(fields, zap.String("tab", a.Tab.ID), zap.String("context", a.Tab.ContextID))
			case AddTabInContext:
				fields = append(fields, zap.String("tab", a.Tab.ID), zap.String("context", a.Tab.ContextID))
			case RemoveTab:
				fields = append(fields, zap.String("tab", a.ID))
			case SelectTab:
				fields = append(fields, zap.String("tab", a.ID))
			case UpdateTab:
				fields = append(fields, zap.String("tab", a.ID))
			}

			err := next(a)
			if err != nil {
				logger.Warn("Action rejected", append(fields, zap.Error(err))...)
				return err
			}
			logger.Debug("Action committed", append(fields, zap.Int("tabs", len(s.current().Tabs)))...)
			return nil
		}
	}
}
