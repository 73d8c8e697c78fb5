package memstore

import (
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
)

// AddBranch stores branches named after their IDs.
func (s *Store) AddBranch(ids ...string) {
	defer s.lock()()
	for _, id := range ids {
		s.d.branches[id] = branch.Branch{ID: id, Name: id}
	}
}

// Link makes sub a sub-branch of parent.
func (s *Store) Link(sub, parent string) {
	defer s.lock()()
	s.d.edges = append(s.d.edges, branch.Edge{SubBranchID: sub, ParentBranchID: parent})
}

// PutVehicle stores v as is and returns its ID.
func (s *Store) PutVehicle(v vehicle.Vehicle) int64 {
	defer s.lock()()
	s.d.nextVehicleID++
	v.ID = s.d.nextVehicleID
	s.d.vehicles[v.ChassisNo] = v
	return v.ID
}

// PutSale stores r as is and returns its ID.
func (s *Store) PutSale(r sales.SalesRecord) int64 {
	defer s.lock()()
	s.d.nextSaleID++
	r.ID = s.d.nextSaleID
	s.d.sales[r.ID] = r
	return r.ID
}

// PutMovement appends t to the log as is.
func (s *Store) PutMovement(t movement.Transaction) {
	defer s.lock()()
	s.d.nextMovementID++
	t.ID = s.d.nextMovementID
	s.d.movements = append(s.d.movements, t)
}
