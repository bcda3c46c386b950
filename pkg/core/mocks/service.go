// Package mocks provides an in-memory branch-versioned feature service for
// testing the protocol client against realistic service behavior: a lock table
// per version, ancestor snapshots, reconcile-time conflict detection in both
// modes, partial posts, differences and row restores.
//
// One simplification against a real service: a reconcile that finds conflicts
// leaves the branch state untouched instead of merging the clean part, so the
// abort-if-conflicts flag does not change the outcome here.
package mocks

import (
	"bytes"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oneconcern/geomon/pkg/model"
)

// geometryField is the pseudo-attribute tracking geometry changes
const geometryField = "$geometry"

type layerData map[int64]model.Feature

func cloneLayers(src map[int64]layerData) map[int64]layerData {
	dst := make(map[int64]layerData, len(src))
	for layerID, rows := range src {
		dst[layerID] = make(layerData, len(rows))
		for oid, f := range rows {
			dst[layerID][oid] = f.Clone()
		}
	}
	return dst
}

func featureEqual(a, b model.Feature) bool {
	return reflect.DeepEqual(a.Attributes, b.Attributes) && bytes.Equal(a.Geometry, b.Geometry)
}

// rowChange describes how one row diverged from a base state
type rowChange struct {
	deleted bool
	fields  map[string]bool // attribute names touched, geometryField included
}

// changedRows diffs a layer against its base state
func changedRows(base, current layerData) map[int64]rowChange {
	changes := make(map[int64]rowChange)
	for oid, row := range current {
		baseRow, ok := base[oid]
		if !ok {
			fields := make(map[string]bool, len(row.Attributes))
			for k := range row.Attributes {
				fields[k] = true
			}
			if len(row.Geometry) > 0 {
				fields[geometryField] = true
			}
			changes[oid] = rowChange{fields: fields}
			continue
		}
		if featureEqual(baseRow, row) {
			continue
		}
		fields := make(map[string]bool)
		for k, v := range row.Attributes {
			if bv, ok := baseRow.Attributes[k]; !ok || !reflect.DeepEqual(bv, v) {
				fields[k] = true
			}
		}
		for k := range baseRow.Attributes {
			if _, ok := row.Attributes[k]; !ok {
				fields[k] = true
			}
		}
		if !bytes.Equal(baseRow.Geometry, row.Geometry) {
			fields[geometryField] = true
		}
		changes[oid] = rowChange{fields: fields}
	}
	for oid := range base {
		if _, ok := current[oid]; !ok {
			changes[oid] = rowChange{deleted: true}
		}
	}
	return changes
}

func overlapping(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

// sessionSnapshot captures a version's state when a session starts, so edits
// can be discarded on stopEditing without save
type sessionSnapshot struct {
	branch         map[int64]layerData
	ancestor       map[int64]layerData
	ancestorMoment model.Moment
	reconciledAt   model.Moment
	conflicts      model.ConflictSet
}

type versionState struct {
	desc           model.VersionDescriptor
	ancestor       map[int64]layerData
	branch         map[int64]layerData
	ancestorMoment model.Moment
	reconciledAt   model.Moment // -1 when a reconcile is pending
	conflicts      model.ConflictSet
	lock           model.SessionGuid
	snapshot       *sessionSnapshot
}

// Service is the in-memory branch-versioned feature service.
type Service struct {
	mu          sync.Mutex
	defaultRows map[int64]layerData
	moment      model.Moment
	versions    map[model.VersionGuid]*versionState
	nextOID     map[int64]int64
}

// NewService builds an empty service. Seed DEFAULT layers before creating versions.
func NewService() *Service {
	return &Service{
		defaultRows: make(map[int64]layerData),
		versions:    make(map[model.VersionGuid]*versionState),
		nextOID:     make(map[int64]int64),
	}
}

// SeedLayer populates a DEFAULT layer. Features without an object id get one assigned.
func (s *Service) SeedLayer(layerID int64, features ...model.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.defaultRows[layerID]
	if !ok {
		rows = make(layerData)
		s.defaultRows[layerID] = rows
	}
	for _, f := range features {
		f = f.Clone()
		oid, ok := f.ObjectID()
		if !ok {
			oid = s.assignOID(layerID)
			if f.Attributes == nil {
				f.Attributes = make(map[string]interface{}, 1)
			}
			f.Attributes[model.ObjectIDField] = oid
		}
		s.trackOID(layerID, oid)
		rows[oid] = f
	}
}

// EditDefault upserts rows directly into DEFAULT, simulating a concurrent
// editor posting through another version. The moment advances.
func (s *Service) EditDefault(layerID int64, features ...model.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.defaultRows[layerID]
	if !ok {
		rows = make(layerData)
		s.defaultRows[layerID] = rows
	}
	for _, f := range features {
		f = f.Clone()
		oid, ok := f.ObjectID()
		if !ok {
			oid = s.assignOID(layerID)
			if f.Attributes == nil {
				f.Attributes = make(map[string]interface{}, 1)
			}
			f.Attributes[model.ObjectIDField] = oid
		}
		s.trackOID(layerID, oid)
		rows[oid] = f
	}
	s.moment++
}

// DeleteDefault removes rows from DEFAULT, simulating a concurrent deletion.
func (s *Service) DeleteDefault(layerID int64, objectIDs ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, oid := range objectIDs {
		delete(s.defaultRows[layerID], oid)
	}
	s.moment++
}

// DefaultRow reads one row of DEFAULT
func (s *Service) DefaultRow(layerID, objectID int64) (model.Feature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.defaultRows[layerID][objectID]
	if !ok {
		return model.Feature{}, false
	}
	return f.Clone(), true
}

// BranchRow reads one row of a version's branch state
func (s *Service) BranchRow(guid model.VersionGuid, layerID, objectID int64) (model.Feature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, ok := s.versions[guid]
	if !ok {
		return model.Feature{}, false
	}
	f, ok := vs.branch[layerID][objectID]
	if !ok {
		return model.Feature{}, false
	}
	return f.Clone(), true
}

// Moment yields the current DEFAULT moment
func (s *Service) Moment() model.Moment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moment
}

// LockHolder yields the session currently holding a version's write lock
func (s *Service) LockHolder(guid model.VersionGuid) model.SessionGuid {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, ok := s.versions[guid]
	if !ok {
		return ""
	}
	return vs.lock
}

// ExpireSession drops a version's lock server-side, as a lock timeout would
func (s *Service) ExpireSession(guid model.VersionGuid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vs, ok := s.versions[guid]; ok {
		vs.lock = ""
		vs.snapshot = nil
	}
}

func (s *Service) assignOID(layerID int64) int64 {
	s.nextOID[layerID]++
	return s.nextOID[layerID]
}

func (s *Service) trackOID(layerID, oid int64) {
	if oid > s.nextOID[layerID] {
		s.nextOID[layerID] = oid
	}
}

// serviceError is raised by semantic operations and rendered by the handler
type serviceError struct {
	code    int
	message string
}

func (e *serviceError) Error() string {
	return e.message
}

func errf(code int, message string) *serviceError {
	return &serviceError{code: code, message: message}
}

func (s *Service) createVersion(name string, access model.AccessLevel, description string) (model.VersionDescriptor, error) {
	for _, vs := range s.versions {
		if vs.desc.Name == name {
			return model.VersionDescriptor{}, errf(400, "version name already in use: "+name)
		}
	}
	now := time.Now().UTC()
	desc := model.VersionDescriptor{
		Guid:        model.VersionGuid(uuid.NewString()),
		Name:        name,
		Access:      access,
		Description: description,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	s.versions[desc.Guid] = &versionState{
		desc:           desc,
		ancestor:       cloneLayers(s.defaultRows),
		branch:         cloneLayers(s.defaultRows),
		ancestorMoment: s.moment,
		reconciledAt:   s.moment,
	}
	return desc, nil
}

func (s *Service) version(guid model.VersionGuid) (*versionState, error) {
	vs, ok := s.versions[guid]
	if !ok {
		return nil, errf(404, "unknown version: "+guid.String())
	}
	return vs, nil
}

// checkSession validates that the caller holds the version's write lock
func (vs *versionState) checkSession(id model.SessionGuid) error {
	if vs.lock == "" || vs.lock != id {
		return errf(498, "session does not hold the lock on version "+vs.desc.Guid.String())
	}
	return nil
}

func (s *Service) startEditing(guid model.VersionGuid, id model.SessionGuid) error {
	vs, err := s.version(guid)
	if err != nil {
		return err
	}
	if id.IsZero() {
		return errf(400, "missing session id")
	}
	if vs.lock != "" {
		return errf(423, "version lock held by session "+vs.lock.String())
	}
	vs.lock = id
	vs.snapshot = &sessionSnapshot{
		branch:         cloneLayers(vs.branch),
		ancestor:       cloneLayers(vs.ancestor),
		ancestorMoment: vs.ancestorMoment,
		reconciledAt:   vs.reconciledAt,
		conflicts:      vs.conflicts,
	}
	return nil
}

func (s *Service) stopEditing(guid model.VersionGuid, id model.SessionGuid, save bool) error {
	vs, err := s.version(guid)
	if err != nil {
		return err
	}
	if err := vs.checkSession(id); err != nil {
		return err
	}
	if !save && vs.snapshot != nil {
		vs.branch = vs.snapshot.branch
		vs.ancestor = vs.snapshot.ancestor
		vs.ancestorMoment = vs.snapshot.ancestorMoment
		vs.reconciledAt = vs.snapshot.reconciledAt
		vs.conflicts = vs.snapshot.conflicts
	}
	vs.lock = ""
	vs.snapshot = nil
	return nil
}

func (s *Service) applyEdits(guid model.VersionGuid, id model.SessionGuid, layerID int64, adds, updates model.Features, deletes []int64) error {
	vs, err := s.version(guid)
	if err != nil {
		return err
	}
	if err := vs.checkSession(id); err != nil {
		return err
	}
	rows, ok := vs.branch[layerID]
	if !ok {
		rows = make(layerData)
		vs.branch[layerID] = rows
	}
	for _, f := range adds {
		f = f.Clone()
		oid, ok := f.ObjectID()
		if !ok {
			oid = s.assignOID(layerID)
			if f.Attributes == nil {
				f.Attributes = make(map[string]interface{}, 1)
			}
			f.Attributes[model.ObjectIDField] = oid
		}
		if _, exists := rows[oid]; exists {
			return errf(400, "add clashes with existing object id")
		}
		s.trackOID(layerID, oid)
		rows[oid] = f
	}
	for _, f := range updates {
		oid, ok := f.ObjectID()
		if !ok {
			return errf(400, "update without object id")
		}
		if _, exists := rows[oid]; !exists {
			return errf(400, "update of unknown object id")
		}
		rows[oid] = f.Clone()
	}
	for _, oid := range deletes {
		delete(rows, oid)
	}
	// new edits supersede any saved conflict read model
	vs.reconciledAt = -1
	vs.conflicts = nil
	return nil
}

// detectConflicts classifies the divergence between branch and DEFAULT edits
// since the version's ancestor moment
func (s *Service) detectConflicts(vs *versionState, detection model.ConflictDetection) model.ConflictSet {
	layerIDs := make(map[int64]bool)
	for layerID := range vs.branch {
		layerIDs[layerID] = true
	}
	for layerID := range s.defaultRows {
		layerIDs[layerID] = true
	}

	var set model.ConflictSet
	sortedLayers := make([]int64, 0, len(layerIDs))
	for layerID := range layerIDs {
		sortedLayers = append(sortedLayers, layerID)
	}
	sort.Slice(sortedLayers, func(i, j int) bool { return sortedLayers[i] < sortedLayers[j] })

	for _, layerID := range sortedLayers {
		ancestor := vs.ancestor[layerID]
		branchChanges := changedRows(ancestor, vs.branch[layerID])
		defaultChanges := changedRows(ancestor, s.defaultRows[layerID])

		layer := model.LayerConflicts{LayerID: layerID}
		oids := make([]int64, 0, len(branchChanges))
		for oid := range branchChanges {
			if _, ok := defaultChanges[oid]; ok {
				oids = append(oids, oid)
			}
		}
		sort.Slice(oids, func(i, j int) bool { return oids[i] < oids[j] })

		for _, oid := range oids {
			b, d := branchChanges[oid], defaultChanges[oid]
			switch {
			case b.deleted && d.deleted:
				// both sides deleted: convergent, not a conflict
			case b.deleted:
				layer.DeleteUpdates = append(layer.DeleteUpdates, model.DeleteUpdateConflict{
					ObjectID: oid,
					Ancestor: ancestor[oid].Clone(),
					Default:  s.defaultRows[layerID][oid].Clone(),
				})
			case d.deleted:
				layer.UpdateDeletes = append(layer.UpdateDeletes, model.UpdateDeleteConflict{
					ObjectID: oid,
					Branch:   vs.branch[layerID][oid].Clone(),
					Ancestor: ancestor[oid].Clone(),
				})
			default:
				if detection == model.DetectByAttribute && !overlapping(b.fields, d.fields) {
					continue
				}
				layer.UpdateUpdates = append(layer.UpdateUpdates, model.UpdateUpdateConflict{
					ObjectID: oid,
					Branch:   vs.branch[layerID][oid].Clone(),
					Ancestor: ancestor[oid].Clone(),
					Default:  s.defaultRows[layerID][oid].Clone(),
				})
			}
		}
		if layer.Count() > 0 {
			set = append(set, layer)
		}
	}
	return set
}

// mergeBranch rebases the branch onto the current DEFAULT state, replaying the
// branch's own changes on top. Only called when the reconcile came out clean.
func (s *Service) mergeBranch(vs *versionState) {
	rebased := cloneLayers(s.defaultRows)
	for layerID, rows := range vs.branch {
		ancestor := vs.ancestor[layerID]
		target, ok := rebased[layerID]
		if !ok {
			target = make(layerData)
			rebased[layerID] = target
		}
		for oid, change := range changedRows(ancestor, rows) {
			if change.deleted {
				delete(target, oid)
				continue
			}
			base, exists := target[oid]
			if !exists {
				target[oid] = rows[oid].Clone()
				continue
			}
			// apply only the fields the branch touched, so disjoint
			// attribute edits merge cleanly under by-attribute detection
			merged := base.Clone()
			branchRow := rows[oid]
			for field := range change.fields {
				if field == geometryField {
					merged.Geometry = append([]byte{}, branchRow.Geometry...)
					continue
				}
				if v, ok := branchRow.Attributes[field]; ok {
					if merged.Attributes == nil {
						merged.Attributes = make(map[string]interface{})
					}
					merged.Attributes[field] = v
				} else {
					delete(merged.Attributes, field)
				}
			}
			target[oid] = merged
		}
	}
	vs.branch = rebased
	vs.ancestor = cloneLayers(s.defaultRows)
	vs.ancestorMoment = s.moment
	vs.reconciledAt = s.moment
	vs.conflicts = nil
}

// reconcile detects conflicts and, when clean, rebases the branch onto the
// current DEFAULT state. A conflicted reconcile always aborts the merge here,
// whatever the abort flag says: the branch is never partially merged.
func (s *Service) reconcile(guid model.VersionGuid, id model.SessionGuid, _ bool, detection model.ConflictDetection, withPost bool) (model.ReconcileOutcome, error) {
	var outcome model.ReconcileOutcome
	vs, err := s.version(guid)
	if err != nil {
		return outcome, err
	}
	if err := vs.checkSession(id); err != nil {
		return outcome, err
	}
	if !detection.IsValid() {
		return outcome, errf(400, "invalid detection mode")
	}

	set := s.detectConflicts(vs, detection)
	if set.HasConflicts() {
		vs.conflicts = set
		vs.reconciledAt = -1
		outcome.HasConflicts = true
		return outcome, nil
	}

	s.mergeBranch(vs)
	outcome.Moment = vs.ancestorMoment
	if withPost {
		if err := s.post(guid, id, nil); err != nil {
			return outcome, err
		}
		outcome.DidPost = true
		outcome.Moment = vs.ancestorMoment
	}
	return outcome, nil
}

func (s *Service) conflictSet(guid model.VersionGuid, id model.SessionGuid) (model.ConflictSet, error) {
	vs, err := s.version(guid)
	if err != nil {
		return nil, err
	}
	if err := vs.checkSession(id); err != nil {
		return nil, err
	}
	return vs.conflicts, nil
}

func (s *Service) inspectConflicts(guid model.VersionGuid, id model.SessionGuid, records []model.InspectionRecord) error {
	vs, err := s.version(guid)
	if err != nil {
		return err
	}
	if err := vs.checkSession(id); err != nil {
		return err
	}
	for _, record := range records {
		for li := range vs.conflicts {
			if vs.conflicts[li].LayerID != record.LayerID {
				continue
			}
			for _, row := range record.Rows {
				flagConflict(&vs.conflicts[li], row.ObjectID, row.Note)
			}
		}
	}
	return nil
}

func flagConflict(layer *model.LayerConflicts, objectID int64, note string) {
	for i := range layer.UpdateUpdates {
		if layer.UpdateUpdates[i].ObjectID == objectID {
			layer.UpdateUpdates[i].Inspection = model.Inspection{Inspected: true, Note: note}
		}
	}
	for i := range layer.UpdateDeletes {
		if layer.UpdateDeletes[i].ObjectID == objectID {
			layer.UpdateDeletes[i].Inspection = model.Inspection{Inspected: true, Note: note}
		}
	}
	for i := range layer.DeleteUpdates {
		if layer.DeleteUpdates[i].ObjectID == objectID {
			layer.DeleteUpdates[i].Inspection = model.Inspection{Inspected: true, Note: note}
		}
	}
}

func (s *Service) post(guid model.VersionGuid, id model.SessionGuid, rows model.PartialPostSpec) error {
	vs, err := s.version(guid)
	if err != nil {
		return err
	}
	if err := vs.checkSession(id); err != nil {
		return err
	}
	if vs.conflicts.HasConflicts() {
		return errf(409, "unresolved conflicts block the post: "+vs.conflicts.Summary())
	}
	if vs.reconciledAt != s.moment {
		return errf(409, "version is not reconciled against the current DEFAULT state")
	}

	selected := make(map[int64]map[int64]bool, len(rows))
	for _, sel := range rows {
		set, ok := selected[sel.LayerID]
		if !ok {
			set = make(map[int64]bool, len(sel.ObjectIDs))
			selected[sel.LayerID] = set
		}
		for _, oid := range sel.ObjectIDs {
			set[oid] = true
		}
	}
	partial := len(rows) > 0

	changedDefault := false
	for layerID, branchRows := range vs.branch {
		ancestor := vs.ancestor[layerID]
		for oid, change := range changedRows(ancestor, branchRows) {
			if partial && !selected[layerID][oid] {
				continue
			}
			target, ok := s.defaultRows[layerID]
			if !ok {
				target = make(layerData)
				s.defaultRows[layerID] = target
			}
			if change.deleted {
				delete(target, oid)
			} else {
				target[oid] = branchRows[oid].Clone()
			}
			// the posted row is now part of the version's ancestor state
			if ancestor == nil {
				ancestor = make(layerData)
				vs.ancestor[layerID] = ancestor
			}
			if change.deleted {
				delete(ancestor, oid)
			} else {
				ancestor[oid] = branchRows[oid].Clone()
			}
			changedDefault = true
		}
	}
	if changedDefault {
		s.moment++
	}
	vs.ancestorMoment = s.moment
	vs.reconciledAt = s.moment
	return nil
}

func (s *Service) differences(guid model.VersionGuid, _ model.Moment, resultType model.DiffResultType) (model.LayerDiffs, error) {
	vs, err := s.version(guid)
	if err != nil {
		return nil, err
	}
	if !resultType.IsValid() {
		return nil, errf(400, "invalid diff result type")
	}

	layerIDs := make([]int64, 0, len(vs.branch))
	seen := make(map[int64]bool)
	for layerID := range vs.branch {
		layerIDs = append(layerIDs, layerID)
		seen[layerID] = true
	}
	for layerID := range vs.ancestor {
		if !seen[layerID] {
			layerIDs = append(layerIDs, layerID)
		}
	}
	sort.Slice(layerIDs, func(i, j int) bool { return layerIDs[i] < layerIDs[j] })

	var diffs model.LayerDiffs
	for _, layerID := range layerIDs {
		ancestor := vs.ancestor[layerID]
		branchRows := vs.branch[layerID]
		diff := model.LayerDiff{LayerID: layerID}

		changes := changedRows(ancestor, branchRows)
		oids := make([]int64, 0, len(changes))
		for oid := range changes {
			oids = append(oids, oid)
		}
		sort.Slice(oids, func(i, j int) bool { return oids[i] < oids[j] })

		for _, oid := range oids {
			change := changes[oid]
			_, inAncestor := ancestor[oid]
			switch {
			case change.deleted:
				diff.Deletes = append(diff.Deletes, oid)
			case !inAncestor:
				diff.Inserts = append(diff.Inserts, oid)
				if resultType == model.DiffFeatures {
					diff.InsertFeatures = append(diff.InsertFeatures, branchRows[oid].Clone())
				}
			default:
				diff.Updates = append(diff.Updates, oid)
				if resultType == model.DiffFeatures {
					diff.UpdateFeatures = append(diff.UpdateFeatures, branchRows[oid].Clone())
				}
			}
		}
		if diff.Count() > 0 {
			diffs = append(diffs, diff)
		}
	}
	return diffs, nil
}

func (s *Service) restoreRows(guid model.VersionGuid, id model.SessionGuid, rows []model.RowSelection) error {
	vs, err := s.version(guid)
	if err != nil {
		return err
	}
	if err := vs.checkSession(id); err != nil {
		return err
	}
	for _, sel := range rows {
		branchRows := vs.branch[sel.LayerID]
		ancestor := vs.ancestor[sel.LayerID]
		for _, oid := range sel.ObjectIDs {
			if row, ok := ancestor[oid]; ok {
				if branchRows == nil {
					branchRows = make(layerData)
					vs.branch[sel.LayerID] = branchRows
				}
				branchRows[oid] = row.Clone()
			} else {
				delete(branchRows, oid)
			}
		}
	}
	// restored rows supersede any saved conflict read model
	vs.reconciledAt = -1
	vs.conflicts = nil
	return nil
}

func (s *Service) alterVersion(guid model.VersionGuid, patch model.VersionPatch) error {
	vs, err := s.version(guid)
	if err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return errf(400, err.Error())
	}
	if patch.Name != nil {
		for _, other := range s.versions {
			if other != vs && other.desc.Name == *patch.Name {
				return errf(400, "version name already in use: "+*patch.Name)
			}
		}
		vs.desc.Name = *patch.Name
	}
	if patch.Access != nil {
		vs.desc.Access = *patch.Access
	}
	if patch.Description != nil {
		vs.desc.Description = *patch.Description
	}
	vs.desc.ModifiedAt = time.Now().UTC()
	return nil
}

func (s *Service) deleteVersion(guid model.VersionGuid) error {
	vs, err := s.version(guid)
	if err != nil {
		return err
	}
	if vs.lock != "" {
		return errf(423, "version lock held by session "+vs.lock.String())
	}
	delete(s.versions, guid)
	return nil
}

func (s *Service) listVersions() model.VersionDescriptors {
	versions := make(model.VersionDescriptors, 0, len(s.versions))
	for _, vs := range s.versions {
		versions = append(versions, vs.desc)
	}
	sort.Sort(versions)
	return versions
}
