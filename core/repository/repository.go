// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package repository lists the projects running the referral program on
// every chain and the random seeds of their lottery rounds.
package repository

import (
	"context"
	"fmt"
	"time"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
	vgcrypto "code.dibs.finance/dibs/libs/crypto"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"

	"github.com/ethereum/go-ethereum/common"
)

const namedLogger = "repository"

var (
	ErrInvalidProject = func(id common.Hash) error {
		return fmt.Errorf("%w: %s", types.ErrInvalidProject, id.Hex())
	}

	ErrRoundNotOver = func(id common.Hash, round uint64) error {
		return fmt.Errorf("%w: round %d of project %s", types.ErrRoundNotOver, round, id.Hex())
	}
)

type Project struct {
	ChainID          uint64          `json:"chain_id"`
	Dibs             types.Address   `json:"dibs"`
	SubgraphEndpoint string          `json:"subgraph_endpoint"`
	Schedule         rounds.Schedule `json:"schedule"`
}

type Repository struct {
	log         *logging.Logger
	broker      Broker
	timeService TimeService
	roles       Roles
	seeds       SeedGenerator

	projects map[common.Hash]*Project
	// insertion order of the projects
	projectIDs []common.Hash
	roundSeeds map[common.Hash]*num.Uint
}

func New(log *logging.Logger, broker Broker, timeService TimeService, roles Roles, seeds SeedGenerator) *Repository {
	r := &Repository{
		log:         log.Named(namedLogger),
		broker:      broker,
		timeService: timeService,
		roles:       roles,
		seeds:       seeds,
	}
	r.reset()
	return r
}

func (r *Repository) reset() {
	r.projects = map[common.Hash]*Project{}
	r.projectIDs = nil
	r.roundSeeds = map[common.Hash]*num.Uint{}
}

// ProjectID returns keccak256(abi.encode(chainId, dibs)).
func ProjectID(chainID uint64, dibs types.Address) common.Hash {
	enc, err := vgcrypto.EncodeUint256Address(num.NewUint(chainID).BigInt(), dibs)
	if err != nil {
		// both types are static
		panic(err)
	}
	return vgcrypto.Keccak256(enc)
}

// RoundID returns keccak256(abi.encodePacked(projectId, uint32 round)).
func RoundID(projectID common.Hash, round uint64) common.Hash {
	return vgcrypto.NewPacked().Bytes32(projectID).Uint32(uint32(round)).Keccak256()
}

func (r *Repository) AddProject(
	ctx context.Context,
	caller types.Address,
	chainID uint64,
	dibs types.Address,
	subgraphEndpoint string,
	firstRoundStart time.Time,
	roundDuration time.Duration,
) (common.Hash, error) {
	if err := r.roles.Require(types.RoleSetter, caller); err != nil {
		return common.Hash{}, err
	}
	schedule := rounds.NewSchedule(firstRoundStart, roundDuration)
	if err := schedule.Validate(); err != nil {
		return common.Hash{}, err
	}
	id := ProjectID(chainID, dibs)
	if _, ok := r.projects[id]; ok {
		return common.Hash{}, fmt.Errorf("%w: project %s", types.ErrAlreadySet, id.Hex())
	}

	r.projects[id] = &Project{
		ChainID:          chainID,
		Dibs:             dibs,
		SubgraphEndpoint: subgraphEndpoint,
		Schedule:         schedule,
	}
	r.projectIDs = append(r.projectIDs, id)

	r.log.Info("project added",
		logging.String("project", id.Hex()),
		logging.Uint64("chain-id", chainID),
		logging.Address("dibs", dibs),
	)
	r.broker.Send(events.NewProjectAdded(ctx, id, subgraphEndpoint))
	return id, nil
}

func (r *Repository) UpdateSubgraphEndpoint(ctx context.Context, caller types.Address, projectID common.Hash, endpoint string) error {
	if err := r.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	p, ok := r.projects[projectID]
	if !ok {
		return ErrInvalidProject(projectID)
	}
	p.SubgraphEndpoint = endpoint
	r.broker.Send(events.NewProjectUpdated(ctx, projectID, endpoint))
	return nil
}

// RequestRandomSeed draws the seed of a round that is over. The seed of a
// round is drawn once.
func (r *Repository) RequestRandomSeed(ctx context.Context, projectID common.Hash, round uint64) (seed *num.Uint, err error) {
	defer func() { metrics.CallCounterInc("request_random_seed", err) }()

	p, ok := r.projects[projectID]
	if !ok {
		return nil, ErrInvalidProject(projectID)
	}
	if !p.Schedule.IsRoundOver(round, r.timeService.GetTimeNow()) {
		return nil, ErrRoundNotOver(projectID, round)
	}
	roundID := RoundID(projectID, round)
	if _, ok := r.roundSeeds[roundID]; ok {
		return nil, fmt.Errorf("%w: seed of round %d", types.ErrAlreadySet, round)
	}

	seed, err = r.seeds.GenerateSeed(ctx, roundID)
	if err != nil {
		r.log.Warn("could not generate seed",
			logging.String("project", projectID.Hex()),
			logging.Uint64("round", round),
			logging.Error(err),
		)
		return nil, err
	}
	r.roundSeeds[roundID] = seed.Clone()

	r.log.Debug("seed drawn",
		logging.String("project", projectID.Hex()),
		logging.Uint64("round", round),
	)
	r.broker.Send(events.NewSeedRequested(ctx, projectID, round, roundID))
	return seed, nil
}

func (r *Repository) Seed(roundID common.Hash) (*num.Uint, bool) {
	s, ok := r.roundSeeds[roundID]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

func (r *Repository) Project(id common.Hash) (Project, bool) {
	p, ok := r.projects[id]
	if !ok {
		return Project{}, false
	}
	return *p, true
}

// ProjectIDs returns the projects in the order they were added.
func (r *Repository) ProjectIDs() []common.Hash {
	return append([]common.Hash(nil), r.projectIDs...)
}
