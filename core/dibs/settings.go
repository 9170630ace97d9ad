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

package dibs

import (
	"context"
	"fmt"
	"strconv"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/logging"
)

func (e *Engine) SetPercentages(ctx context.Context, caller types.Address, p types.Percentages) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	e.percentages = p
	e.settingUpdated(ctx, "percentages", fmt.Sprintf("%d/%d/%d/%d", p.Referee, p.Referrer, p.Grandparent, p.Platform))
	return nil
}

func (e *Engine) SetTierToPercentage(ctx context.Context, caller types.Address, tier, ppm uint32) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	if uint64(ppm) > 1_000_000 {
		return fmt.Errorf("%w: tier %d percentage %d", types.ErrInvalidPercentages, tier, ppm)
	}
	e.tierToPercentage[tier] = ppm
	e.settingUpdated(ctx, "tier-percentage."+strconv.FormatUint(uint64(tier), 10), strconv.FormatUint(uint64(ppm), 10))
	return nil
}

func (e *Engine) SetTierToTickets(ctx context.Context, caller types.Address, tier uint32, tickets uint64) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	e.tierToTickets[tier] = tickets
	e.settingUpdated(ctx, "tier-tickets."+strconv.FormatUint(uint64(tier), 10), strconv.FormatUint(tickets, 10))
	return nil
}

func (e *Engine) SetReferrerTier(ctx context.Context, caller, referrer types.Address, tier uint32) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	e.referrerTier[referrer] = tier
	e.settingUpdated(ctx, "referrer-tier."+referrer.Hex(), strconv.FormatUint(uint64(tier), 10))
	return nil
}

func (e *Engine) SetUserTier(ctx context.Context, caller, user types.Address, tier uint32) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	e.userTier[user] = tier
	e.settingUpdated(ctx, "user-tier."+user.Hex(), strconv.FormatUint(uint64(tier), 10))
	return nil
}

func (e *Engine) SetMuonInterface(ctx context.Context, caller, muonInterface types.Address) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	e.muonInterface = muonInterface
	e.settingUpdated(ctx, "muon-interface", muonInterface.Hex())
	return nil
}

func (e *Engine) SetRoundSchedule(ctx context.Context, caller types.Address, schedule rounds.Schedule) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	if err := schedule.Validate(); err != nil {
		return err
	}
	e.schedule = schedule
	e.settingUpdated(ctx, "round-schedule", fmt.Sprintf("%s/%s", schedule.Start.UTC(), schedule.RoundDuration))
	return nil
}

func (e *Engine) SetBlacklisted(ctx context.Context, caller types.Address, accounts []types.Address, blacklisted bool) error {
	if err := e.roles.Require(types.RoleBlacklistSetter, caller); err != nil {
		return err
	}
	for _, a := range accounts {
		if blacklisted {
			e.blacklisted[a] = struct{}{}
		} else {
			delete(e.blacklisted, a)
		}
	}
	e.broker.Send(events.NewBlacklistUpdated(ctx, accounts, blacklisted))
	return nil
}

func (e *Engine) settingUpdated(ctx context.Context, setting, value string) {
	e.log.Debug("setting updated", logging.String("setting", setting), logging.String("value", value))
	e.broker.Send(events.NewSettingUpdated(ctx, namedLogger, setting, value))
}
