package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/evcraddock/field-visits/internal/catalog"
)

// handleAPICatalog routes /api/{brands,chains,stores}[/{id}] requests.
func (s *Server) handleAPICatalog(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/")
	kindStr, idStr, hasID := strings.Cut(path, "/")
	kind := catalog.Kind(kindStr)
	if !kind.IsValid() {
		apiError(w, "not found", http.StatusNotFound)
		return
	}

	if !hasID {
		switch r.Method {
		case http.MethodGet:
			s.apiListCatalog(w, kind)
		case http.MethodPost:
			s.apiAddCatalog(w, r, kind)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiError(w, "invalid "+strings.TrimSuffix(kindStr, "s")+" ID", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.apiGetCatalog(w, kind, id)
	case http.MethodPut:
		s.apiUpdateCatalog(w, r, kind, id)
	case http.MethodDelete:
		if err := s.catalog.Delete(kind, id); err != nil {
			apiFail(w, "deleting catalog entry", err)
			return
		}
		apiJSON(w, map[string]any{"id": id, "removed": true}, http.StatusOK)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiListCatalog(w http.ResponseWriter, kind catalog.Kind) {
	var (
		items any
		err   error
	)
	switch kind {
	case catalog.KindBrand:
		items, err = s.catalog.ListBrands()
	case catalog.KindChain:
		items, err = s.catalog.ListChains()
	default:
		items, err = s.catalog.ListStores()
	}
	if err != nil {
		apiFail(w, "listing "+string(kind), err)
		return
	}
	apiJSON(w, items, http.StatusOK)
}

func (s *Server) apiGetCatalog(w http.ResponseWriter, kind catalog.Kind, id int64) {
	var (
		item any
		err  error
	)
	switch kind {
	case catalog.KindBrand:
		item, err = s.catalog.GetBrand(id)
	case catalog.KindChain:
		item, err = s.catalog.GetChain(id)
	default:
		item, err = s.catalog.GetStore(id)
	}
	if err != nil {
		apiFail(w, "loading catalog entry", err)
		return
	}
	apiJSON(w, item, http.StatusOK)
}

func (s *Server) apiAddCatalog(w http.ResponseWriter, r *http.Request, kind catalog.Kind) {
	item, err := s.writeCatalog(w, r, kind, 0)
	if err != nil {
		apiFail(w, "adding catalog entry", err)
		return
	}
	if item != nil {
		apiJSON(w, item, http.StatusCreated)
	}
}

func (s *Server) apiUpdateCatalog(w http.ResponseWriter, r *http.Request, kind catalog.Kind, id int64) {
	item, err := s.writeCatalog(w, r, kind, id)
	if err != nil {
		apiFail(w, "updating catalog entry", err)
		return
	}
	if item != nil {
		apiJSON(w, item, http.StatusOK)
	}
}

// writeCatalog decodes the body and inserts (id == 0) or updates the entry.
// A nil item with a nil error means the body was rejected and answered.
func (s *Server) writeCatalog(w http.ResponseWriter, r *http.Request, kind catalog.Kind, id int64) (any, error) {
	switch kind {
	case catalog.KindBrand:
		var b catalog.Brand
		if !decodeBody(w, r, &b) {
			return nil, nil
		}
		if id == 0 {
			return s.catalog.AddBrand(b)
		}
		b.ID = id
		return s.catalog.UpdateBrand(b)
	case catalog.KindChain:
		var c catalog.Chain
		if !decodeBody(w, r, &c) {
			return nil, nil
		}
		if id == 0 {
			return s.catalog.AddChain(c)
		}
		c.ID = id
		return s.catalog.UpdateChain(c)
	default:
		var st catalog.Store
		if !decodeBody(w, r, &st) {
			return nil, nil
		}
		if id == 0 {
			return s.catalog.AddStore(st)
		}
		st.ID = id
		return s.catalog.UpdateStore(st)
	}
}
