package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

func TestCreateScholarship_MetadataRoundTrip(t *testing.T) {
	f := newFixture(t)
	student := uuid.New()

	id, err := f.scholarships.CreateScholarship(f.ctx, student, "ipfs://profile-hash")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	data, err := f.scholarships.GetScholarshipData(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, data.ID)
	assert.Equal(t, student, data.Owner)
	assert.Equal(t, "ipfs://profile-hash", data.Metadata)
	assert.Zero(t, data.Balance)
	assert.False(t, data.Frozen)
}

func TestCreateScholarship_SequentialIDs(t *testing.T) {
	f := newFixture(t)

	first, _ := f.create(t, "a")
	second, _ := f.create(t, "b")
	third, _ := f.create(t, "c")

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, uint64(3), third)

	ids, err := f.scholarships.GetAllScholarships(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)
}

func TestCreateScholarship_RejectsEmptyInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.scholarships.CreateScholarship(f.ctx, uuid.Nil, "meta")
	assert.ErrorIs(t, err, domain.ErrOwnerEmpty)

	_, err = f.scholarships.CreateScholarship(f.ctx, uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrMetadataEmpty)

	ids, lerr := f.scholarships.GetAllScholarships(f.ctx)
	require.NoError(t, lerr)
	assert.Empty(t, ids)
}

func TestGetScholarshipData_OwnerIsLive(t *testing.T) {
	f := newFixture(t)
	id, original := f.create(t, "meta")

	next := uuid.New()
	require.NoError(t, f.registry.Transfer(f.ctx, id, next))

	data, err := f.scholarships.GetScholarshipData(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, next, data.Owner)
	assert.NotEqual(t, original, data.Owner)
}

func TestGetScholarshipData_Unknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.scholarships.GetScholarshipData(f.ctx, 7)
	assert.ErrorIs(t, err, store.ErrScholarshipNotFound)
}

func TestGetScholarshipsByStudent(t *testing.T) {
	f := newFixture(t)
	alice := uuid.New()
	bob := uuid.New()

	a1, err := f.scholarships.CreateScholarship(f.ctx, alice, "a1")
	require.NoError(t, err)
	b1, err := f.scholarships.CreateScholarship(f.ctx, bob, "b1")
	require.NoError(t, err)
	a2, err := f.scholarships.CreateScholarship(f.ctx, alice, "a2")
	require.NoError(t, err)

	aliceIDs, err := f.scholarships.GetScholarshipsByStudent(f.ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []uint64{a1, a2}, aliceIDs)

	bobIDs, err := f.scholarships.GetScholarshipsByStudent(f.ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []uint64{b1}, bobIDs)

	noneIDs, err := f.scholarships.GetScholarshipsByStudent(f.ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, noneIDs)
}

// Mint records do not follow ownership: a transferred token still shows up
// under the student it was minted to.
func TestGetScholarshipsByStudent_TransferDoesNotMove(t *testing.T) {
	f := newFixture(t)
	id, original := f.create(t, "meta")

	require.NoError(t, f.registry.Transfer(f.ctx, id, uuid.New()))

	ids, err := f.scholarships.GetScholarshipsByStudent(f.ctx, original)
	require.NoError(t, err)
	assert.Equal(t, []uint64{id}, ids)
}
