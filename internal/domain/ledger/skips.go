package ledger

import "sync"

// SkipReason motivo por el que una fila no entró al cálculo.
type SkipReason string

const (
	SkipMissingWarehouse    SkipReason = "missing_warehouse"
	SkipUnresolvedWarehouse SkipReason = "unresolved_warehouse"
)

// SkipCounter acumulador de filas omitidas por petición. Un *SkipCounter nil ignora los registros.
type SkipCounter struct {
	mu     sync.Mutex
	counts map[SkipReason]int
}

// NewSkipCounter crea un contador vacío.
func NewSkipCounter() *SkipCounter {
	return &SkipCounter{counts: make(map[SkipReason]int)}
}

// Add registra una fila omitida.
func (s *SkipCounter) Add(reason SkipReason) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.counts[reason]++
	s.mu.Unlock()
}

// Count devuelve las omisiones de un motivo.
func (s *SkipCounter) Count(reason SkipReason) int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[reason]
}

// Total suma todas las omisiones.
func (s *SkipCounter) Total() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Snapshot copia de los contadores para la respuesta.
func (s *SkipCounter) Snapshot() map[string]int {
	out := map[string]int{}
	if s == nil {
		return out
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for r, c := range s.counts {
		out[string(r)] = c
	}
	return out
}
