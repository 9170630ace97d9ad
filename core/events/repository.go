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

package events

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type ProjectUpdated struct {
	*Base
	ProjectID        common.Hash
	SubgraphEndpoint string
}

func NewProjectAdded(ctx context.Context, projectID common.Hash, endpoint string) *ProjectUpdated {
	return &ProjectUpdated{
		Base:             newBase(ctx, ProjectAddedEvent),
		ProjectID:        projectID,
		SubgraphEndpoint: endpoint,
	}
}

func NewProjectUpdated(ctx context.Context, projectID common.Hash, endpoint string) *ProjectUpdated {
	return &ProjectUpdated{
		Base:             newBase(ctx, ProjectUpdatedEvent),
		ProjectID:        projectID,
		SubgraphEndpoint: endpoint,
	}
}

type SeedRequested struct {
	*Base
	ProjectID common.Hash
	Round     uint64
	RoundID   common.Hash
}

func NewSeedRequested(ctx context.Context, projectID common.Hash, round uint64, roundID common.Hash) *SeedRequested {
	return &SeedRequested{
		Base:      newBase(ctx, SeedRequestedEvent),
		ProjectID: projectID,
		Round:     round,
		RoundID:   roundID,
	}
}
