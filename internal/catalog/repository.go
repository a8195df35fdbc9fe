package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/evcraddock/field-visits/internal/visit"
)

// Repository provides CRUD operations for brands, chains and stores.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a catalog repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func invalid(field, format string, args ...any) error {
	return &visit.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func notFound(k Kind, id int64) error {
	return &visit.NotFoundError{Kind: k.singular(), ID: strconv.FormatInt(id, 10)}
}

// writeErr maps unique and check constraint failures to validation errors.
func writeErr(k Kind, name, doing string, err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		if serr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return invalid("name", "%s %q already exists", k.singular(), name)
		}
		return invalid("", "%s %q violates a constraint: %v", k.singular(), name, serr)
	}
	return fmt.Errorf("%s: %w", doing, err)
}

// AddBrand creates a brand.
func (r *Repository) AddBrand(b Brand) (*Brand, error) {
	b.Name, b.Category = strings.TrimSpace(b.Name), strings.TrimSpace(b.Category)
	if b.Name == "" {
		return nil, invalid("name", "brand name is required")
	}
	if b.Category == "" {
		return nil, invalid("category", "brand category is required")
	}

	result, err := r.db.Exec("INSERT INTO brands (name, category) VALUES (?, ?)", b.Name, b.Category)
	if err != nil {
		return nil, writeErr(KindBrand, b.Name, "inserting brand", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}
	return r.GetBrand(id)
}

// GetBrand returns a brand by its ID.
func (r *Repository) GetBrand(id int64) (*Brand, error) {
	var b Brand
	err := r.db.QueryRow(
		"SELECT id, name, category, created_at FROM brands WHERE id = ?", id,
	).Scan(&b.ID, &b.Name, &b.Category, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound(KindBrand, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying brand %d: %w", id, err)
	}
	return &b, nil
}

// ListBrands returns all brands ordered by name.
func (r *Repository) ListBrands() (brands []*Brand, err error) {
	rows, err := r.db.Query("SELECT id, name, category, created_at FROM brands ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	brands = []*Brand{}
	for rows.Next() {
		var b Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Category, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning brand: %w", err)
		}
		brands = append(brands, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating brands: %w", err)
	}
	return brands, nil
}

// UpdateBrand replaces a brand's name and category.
func (r *Repository) UpdateBrand(b Brand) (*Brand, error) {
	b.Name, b.Category = strings.TrimSpace(b.Name), strings.TrimSpace(b.Category)
	if b.Name == "" {
		return nil, invalid("name", "brand name is required")
	}
	if b.Category == "" {
		return nil, invalid("category", "brand category is required")
	}

	result, err := r.db.Exec("UPDATE brands SET name = ?, category = ? WHERE id = ?", b.Name, b.Category, b.ID)
	if err != nil {
		return nil, writeErr(KindBrand, b.Name, "updating brand", err)
	}
	if err := requireRow(result, KindBrand, b.ID); err != nil {
		return nil, err
	}
	return r.GetBrand(b.ID)
}

// AddChain creates a retail chain.
func (r *Repository) AddChain(c Chain) (*Chain, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := validateChain(c); err != nil {
		return nil, err
	}

	result, err := r.db.Exec(
		"INSERT INTO chains (name, store_count, regions) VALUES (?, ?, ?)",
		c.Name, c.StoreCount, joinRegions(c.Regions),
	)
	if err != nil {
		return nil, writeErr(KindChain, c.Name, "inserting chain", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}
	return r.GetChain(id)
}

func validateChain(c Chain) error {
	if c.Name == "" {
		return invalid("name", "chain name is required")
	}
	if c.StoreCount < 0 {
		return invalid("store_count", "must not be negative, got %d", c.StoreCount)
	}
	return nil
}

// GetChain returns a chain by its ID.
func (r *Repository) GetChain(id int64) (*Chain, error) {
	var c Chain
	var regions string
	err := r.db.QueryRow(
		"SELECT id, name, store_count, regions, created_at FROM chains WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.StoreCount, &regions, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound(KindChain, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying chain %d: %w", id, err)
	}
	c.Regions = splitRegions(regions)
	return &c, nil
}

// ListChains returns all chains ordered by name.
func (r *Repository) ListChains() (chains []*Chain, err error) {
	rows, err := r.db.Query("SELECT id, name, store_count, regions, created_at FROM chains ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing chains: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	chains = []*Chain{}
	for rows.Next() {
		var c Chain
		var regions string
		if err := rows.Scan(&c.ID, &c.Name, &c.StoreCount, &regions, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chain: %w", err)
		}
		c.Regions = splitRegions(regions)
		chains = append(chains, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chains: %w", err)
	}
	return chains, nil
}

// UpdateChain replaces a chain's fields.
func (r *Repository) UpdateChain(c Chain) (*Chain, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := validateChain(c); err != nil {
		return nil, err
	}

	result, err := r.db.Exec(
		"UPDATE chains SET name = ?, store_count = ?, regions = ? WHERE id = ?",
		c.Name, c.StoreCount, joinRegions(c.Regions), c.ID,
	)
	if err != nil {
		return nil, writeErr(KindChain, c.Name, "updating chain", err)
	}
	if err := requireRow(result, KindChain, c.ID); err != nil {
		return nil, err
	}
	return r.GetChain(c.ID)
}

// AddStore creates a store.
func (r *Repository) AddStore(s Store) (*Store, error) {
	s = trimStore(s)
	if s.Name == "" {
		return nil, invalid("name", "store name is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO stores (name, chain, address, city) VALUES (?, ?, ?, ?)",
		s.Name, s.Chain, s.Address, s.City,
	)
	if err != nil {
		return nil, writeErr(KindStore, s.Name, "inserting store", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}
	return r.GetStore(id)
}

func trimStore(s Store) Store {
	s.Name = strings.TrimSpace(s.Name)
	s.Chain = strings.TrimSpace(s.Chain)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	return s
}

const storeColumns = "id, name, chain, address, city, created_at"

func scanStore(row interface{ Scan(...any) error }) (*Store, error) {
	var s Store
	if err := row.Scan(&s.ID, &s.Name, &s.Chain, &s.Address, &s.City, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStore returns a store by its ID.
func (r *Repository) GetStore(id int64) (*Store, error) {
	s, err := scanStore(r.db.QueryRow("SELECT "+storeColumns+" FROM stores WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, notFound(KindStore, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying store %d: %w", id, err)
	}
	return s, nil
}

// ListStores returns all stores ordered by name.
func (r *Repository) ListStores() (stores []*Store, err error) {
	rows, err := r.db.Query("SELECT " + storeColumns + " FROM stores ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	stores = []*Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning store: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stores: %w", err)
	}
	return stores, nil
}

// UpdateStore replaces a store's fields.
func (r *Repository) UpdateStore(s Store) (*Store, error) {
	s = trimStore(s)
	if s.Name == "" {
		return nil, invalid("name", "store name is required")
	}

	result, err := r.db.Exec(
		"UPDATE stores SET name = ?, chain = ?, address = ?, city = ? WHERE id = ?",
		s.Name, s.Chain, s.Address, s.City, s.ID,
	)
	if err != nil {
		return nil, writeErr(KindStore, s.Name, "updating store", err)
	}
	if err := requireRow(result, KindStore, s.ID); err != nil {
		return nil, err
	}
	return r.GetStore(s.ID)
}

// LookupStore returns the full address of the store with the given name,
// matched case-insensitively.
func (r *Repository) LookupStore(name string) (string, bool, error) {
	s, err := scanStore(r.db.QueryRow(
		"SELECT "+storeColumns+" FROM stores WHERE name = ? COLLATE NOCASE", strings.TrimSpace(name),
	))
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up store %q: %w", name, err)
	}
	return s.FullAddress(), true, nil
}

// Delete removes one catalog entry.
func (r *Repository) Delete(k Kind, id int64) error {
	if !k.IsValid() {
		return invalid("kind", "unknown catalog kind %q", k)
	}

	// k is one of the fixed table names above.
	result, err := r.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", k), id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", k.singular(), err)
	}
	return requireRow(result, k, id)
}

// Counts returns how many entries each collection holds.
func (r *Repository) Counts() (map[Kind]int, error) {
	counts := make(map[Kind]int, len(ValidKinds))
	for _, k := range ValidKinds {
		var n int
		if err := r.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", k)).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", k, err)
		}
		counts[k] = n
	}
	return counts, nil
}

func requireRow(result sql.Result, k Kind, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return notFound(k, id)
	}
	return nil
}
