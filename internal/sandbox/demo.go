package sandbox

import (
	"encoding/binary"
	"fmt"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/state"
)

// RegisterLedger registers the built-in ledger module: a small account
// store whose operations have costs linear in their declared components.
// It exists so the pipeline can be exercised end to end without an
// external runtime.
func RegisterLedger(r *Registry) {
	r.MustRegister(Operation{
		Module: "ledger",
		Name:   "deposit",
		Components: []spec.Component{
			{Name: "n", Min: 1, Max: 1000},
		},
		Body: func(store state.Store, a spec.Assignment) error {
			n := a["n"]
			for i := int64(0); i < n; i++ {
				store.Put(acctKey(i), encodeBalance(100+i))
			}
			return nil
		},
	})

	r.MustRegister(Operation{
		Module: "ledger",
		Name:   "transfer",
		Components: []spec.Component{
			{Name: "s", Min: 1, Max: 500},
			{Name: "r", Min: 1, Max: 500},
		},
		Setup: func(store state.Store, a spec.Assignment) error {
			for i := int64(0); i < a["s"]+a["r"]; i++ {
				store.Put(acctKey(i), encodeBalance(1000))
			}
			return nil
		},
		Body: func(store state.Store, a spec.Assignment) error {
			s, recv := a["s"], a["r"]
			var total int64
			for i := int64(0); i < s; i++ {
				raw, ok := store.Get(acctKey(i))
				if !ok {
					return fmt.Errorf("sender account %d missing", i)
				}
				total += decodeBalance(raw)
			}
			share := total / max(recv, 1)
			for i := s; i < s+recv; i++ {
				store.Put(acctKey(i), encodeBalance(share))
			}
			return nil
		},
	})

	r.MustRegister(Operation{
		Module: "ledger",
		Name:   "rotate_epoch",
		Setup: func(store state.Store, a spec.Assignment) error {
			store.Put("ledger:epoch", encodeBalance(7))
			return nil
		},
		Body: func(store state.Store, a spec.Assignment) error {
			raw, ok := store.Get("ledger:epoch")
			if !ok {
				return fmt.Errorf("epoch missing")
			}
			store.Put("ledger:epoch", encodeBalance(decodeBalance(raw)+1))
			return nil
		},
	})
}

func acctKey(i int64) string {
	return fmt.Sprintf("ledger:acct:%08d", i)
}

func encodeBalance(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func decodeBalance(raw []byte) int64 {
	if len(raw) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(raw))
}
