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

package types

import "errors"

var (
	ErrZeroValue          = errors.New("zero value")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidPercentages = errors.New("invalid percentages")
	ErrTooManyWinners     = errors.New("too many winners")

	ErrCodeAlreadyExists = errors.New("code already exists")
	ErrCodeDoesNotExist  = errors.New("code does not exist")

	ErrLotteryRoundNotOver     = errors.New("lottery round not over")
	ErrLotteryRoundAlreadyOver = errors.New("lottery round already over")

	ErrDayNotOver                         = errors.New("day not over")
	ErrDayMustBeGreaterThanLastUpdatedDay = errors.New("day must be greater than last updated day")
	ErrNoLeaderBoardData                  = errors.New("no leader board data")
	ErrAlreadySet                         = errors.New("already set")
	ErrAlreadyClaimed                     = errors.New("already claimed")
	ErrNotWinner                          = errors.New("not a winner")

	ErrNotMuonInterface  = errors.New("caller is not the muon interface")
	ErrOnlyMuonInterface = errors.New("only the muon interface")
	ErrBlacklisted       = errors.New("blacklisted")
	ErrBalanceTooLow     = errors.New("balance too low")
	ErrBalanceOverflow   = errors.New("balance overflow")
	ErrMissingRole       = errors.New("missing role")

	ErrRequestAlreadyConsumed  = errors.New("request already consumed")
	ErrInvalidGroupSignature   = errors.New("invalid group signature")
	ErrInvalidGatewaySignature = errors.New("invalid gateway signature")

	ErrInvalidProject = errors.New("invalid project")
	ErrRoundNotOver   = errors.New("round not over")

	ErrTransferFailed = errors.New("transfer failed")
)
