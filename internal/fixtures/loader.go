// server/internal/fixtures/loader.go
package fixtures

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"

	"lmis-mock-server/internal/directory"
	"lmis-mock-server/internal/models"
	"lmis-mock-server/internal/reference"
	"lmis-mock-server/internal/stock"
)

//go:embed data
var embedded embed.FS

// Fixture file names, relative to the source root.
const (
	RequisitionsFile  = "requisitions.json"
	StockFile         = "stock.json"
	ReferenceFile     = "reference.json"
	UsersFile         = "users.json"
	PatientsFile      = "fhir/patients.json"
	LocationsFile     = "fhir/locations.json"
	OrganizationsFile = "fhir/organizations.json"
	PractitionersFile = "fhir/practitioners.json"
)

// Source opens fixture files by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSSource reads fixtures from a file system.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return s.FS.Open(name)
}

// Embedded returns the fixtures compiled into the binary.
func Embedded() Source {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return FSSource{FS: sub}
}

// Dir reads fixtures from a directory on disk.
func Dir(path string) Source {
	return FSSource{FS: os.DirFS(path)}
}

// Bundle is the complete seed state of the server.
type Bundle struct {
	Requisitions []models.Requisition
	Stock        stock.Seed
	Reference    reference.Data
	Users        []models.User
	FHIR         directory.Seed
}

// Load reads every fixture file from src.
func Load(ctx context.Context, src Source) (*Bundle, error) {
	var b Bundle

	var requisitions struct {
		Requisitions []models.Requisition `json:"requisitions"`
	}
	if err := decode(ctx, src, RequisitionsFile, &requisitions); err != nil {
		return nil, err
	}
	b.Requisitions = requisitions.Requisitions

	if err := decode(ctx, src, StockFile, &b.Stock); err != nil {
		return nil, err
	}
	if err := decode(ctx, src, ReferenceFile, &b.Reference); err != nil {
		return nil, err
	}

	var users struct {
		Users []models.User `json:"users"`
	}
	if err := decode(ctx, src, UsersFile, &users); err != nil {
		return nil, err
	}
	b.Users = users.Users

	var patients struct {
		Patients []directory.Resource `json:"patients"`
	}
	if err := decode(ctx, src, PatientsFile, &patients); err != nil {
		return nil, err
	}
	var locations struct {
		Locations []directory.Resource `json:"locations"`
	}
	if err := decode(ctx, src, LocationsFile, &locations); err != nil {
		return nil, err
	}
	var organizations struct {
		Organizations []directory.Resource `json:"organizations"`
	}
	if err := decode(ctx, src, OrganizationsFile, &organizations); err != nil {
		return nil, err
	}
	var practitioners struct {
		Practitioners     []directory.Resource `json:"practitioners"`
		PractitionerRoles []directory.Resource `json:"practitionerRoles"`
	}
	if err := decode(ctx, src, PractitionersFile, &practitioners); err != nil {
		return nil, err
	}
	b.FHIR = directory.Seed{
		Patients:          patients.Patients,
		Locations:         locations.Locations,
		Organizations:     organizations.Organizations,
		Practitioners:     practitioners.Practitioners,
		PractitionerRoles: practitioners.PractitionerRoles,
	}

	return &b, nil
}

func decode(ctx context.Context, src Source, name string, dst any) error {
	r, err := src.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to open fixture %s: %w", name, err)
	}
	defer r.Close()

	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", name, err)
	}
	return nil
}
