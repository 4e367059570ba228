// Package memory implementa los puertos de persistencia en memoria (STORAGE_DRIVER=memory).
// Las transacciones se serializan entre sí y sus escrituras se aplican juntas al confirmar.
package memory

import (
	"strings"
	"sync"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// state datos confirmados.
type state struct {
	materials map[string]entity.Material
	boms      map[string]entity.BillOfMaterial // por material compuesto
	accounts  map[string]entity.Account
	postings  map[string][]entity.Posting // por cuenta, en orden de inserción
	partners  map[string]entity.BusinessPartner
	orders    map[string]entity.SalesOrder
	items     map[string]string // línea -> pedido
}

func newState() *state {
	return &state{
		materials: map[string]entity.Material{},
		boms:      map[string]entity.BillOfMaterial{},
		accounts:  map[string]entity.Account{},
		postings:  map[string][]entity.Posting{},
		partners:  map[string]entity.BusinessPartner{},
		orders:    map[string]entity.SalesOrder{},
		items:     map[string]string{},
	}
}

// backend lectura del estado confirmado y escritura en dos fases:
// check valida contra el estado y apply modifica (no puede fallar).
type backend interface {
	read(fn func(s *state))
	write(check func(s *state) error, apply func(s *state)) error
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func (s *Store) write(check func(st *state) error, apply func(st *state)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if check != nil {
		if err := check(s.st); err != nil {
			return err
		}
	}
	apply(s.st)
	return nil
}

// Materials repositorio de materiales fuera de transacción.
func (s *Store) Materials() *MaterialRepo { return NewMaterialRepository(s) }

// BillsOfMaterial repositorio de listas de materiales.
func (s *Store) BillsOfMaterial() *BillOfMaterialRepo { return NewBillOfMaterialRepository(s) }

// Stock repositorio de stock.
func (s *Store) Stock() *StockRepo { return NewStockRepository(s) }

// Accounts repositorio de cuentas (lecturas).
func (s *Store) Accounts() *AccountRepo { return NewAccountRepository(s) }

// Postings repositorio de asientos (lecturas).
func (s *Store) Postings() *PostingRepo { return NewPostingRepository(s) }

// Partners repositorio de terceros.
func (s *Store) Partners() *PartnerRepo { return NewPartnerRepository(s) }

// SalesOrders repositorio de pedidos.
func (s *Store) SalesOrders() *SalesOrderRepo { return NewSalesOrderRepository(s) }

// txBackend acumula escrituras de una transacción. Las lecturas ven el estado confirmado.
type txBackend struct {
	store *Store
	ops   []func(st *state)
}

func (t *txBackend) read(fn func(st *state)) {
	t.store.read(fn)
}

func (t *txBackend) write(check func(st *state) error, apply func(st *state)) error {
	if check != nil {
		var err error
		t.store.read(func(st *state) { err = check(st) })
		if err != nil {
			return err
		}
	}
	t.ops = append(t.ops, apply)
	return nil
}

func (t *txBackend) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, op := range t.ops {
		op(t.store.st)
	}
	t.ops = nil
}

// own copia los textos que se guardan en el estado para que no compartan
// memoria con buffers del llamador.
func own(ps ...*string) {
	for _, p := range ps {
		*p = strings.Clone(*p)
	}
}
