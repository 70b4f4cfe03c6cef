package engine

import "holdemroom/models"

// ActionProcessor applies a validated betting action to a player and, for
// raises, to the round's shared current-bet/min-raise pointers. It reports
// whether the action reopened the betting round (a full raise) so the
// caller can update the last-aggressor pointer without re-deriving it.
type ActionProcessor struct {
	validator *BettingValidator
	players   []*models.Player
}

func NewActionProcessor(validator *BettingValidator, players []*models.Player) *ActionProcessor {
	return &ActionProcessor{
		validator: validator,
		players:   players,
	}
}

func (ap *ActionProcessor) processFold(player *models.Player) {
	player.Status = models.StatusFolded
	player.LastAction = models.ActionFold
	player.LastActionAmount = 0
}

func (ap *ActionProcessor) processCheck(player *models.Player) error {
	if err := ap.validator.validateCheck(player.Bet); err != nil {
		return err
	}
	player.LastAction = models.ActionCheck
	player.LastActionAmount = 0
	return nil
}

func (ap *ActionProcessor) processCall(player *models.Player, currentBet int) {
	callAmount := currentBet - player.Bet
	if callAmount > player.Chips {
		ap.processAllInCall(player, player.Chips)
	} else {
		player.PlaceBet(callAmount)
		player.LastAction = models.ActionCall
		player.LastActionAmount = callAmount
	}
}

func (ap *ActionProcessor) processAllInCall(player *models.Player, amount int) {
	player.PlaceBet(amount)
	player.Status = models.StatusAllIn
	player.LastAction = models.ActionAllIn
	player.LastActionAmount = amount
}

// processRaise applies a raise to a target per-round total bet (not an
// increment). The caller is responsible for translating the wire
// command's raise-by-increment into that total before calling this.
//
// Affordability is checked before the min-raise requirement: a player
// raising with fewer chips than a full raise would cost is routed to
// processAllInRaise as a short all-in instead of being rejected.
func (ap *ActionProcessor) processRaise(player *models.Player, amount int, currentBet *int, minRaise *int) (bool, error) {
	if err := ap.validator.validateRaiseAmount(amount, player.Bet); err != nil {
		return false, err
	}

	amountToAdd := amount - player.Bet
	if amountToAdd >= player.Chips {
		return ap.processAllInRaise(player, player.Chips, currentBet, minRaise)
	}

	if err := ap.validator.validateRaise(amount, player.Bet); err != nil {
		return false, err
	}

	player.PlaceBet(amountToAdd)
	player.LastAction = models.ActionRaise
	player.LastActionAmount = amountToAdd

	*minRaise = player.Bet - *currentBet
	*currentBet = player.Bet
	reopenBettingForPlayers(ap.players, player)

	return true, nil
}

func (ap *ActionProcessor) processAllInRaise(player *models.Player, amount int, currentBet *int, minRaise *int) (bool, error) {
	player.PlaceBet(amount)
	player.Status = models.StatusAllIn
	player.LastAction = models.ActionAllIn
	player.LastActionAmount = amount

	if ap.validator.isFullRaise(player.Bet) {
		*minRaise = player.Bet - *currentBet
		*currentBet = player.Bet
		reopenBettingForPlayers(ap.players, player)
		return true, nil
	} else if player.Bet > *currentBet {
		*currentBet = player.Bet
	}

	return false, nil
}

func (ap *ActionProcessor) processAllIn(player *models.Player, currentBet *int, minRaise *int) (bool, error) {
	if err := ap.validator.validateAllIn(player.Chips); err != nil {
		return false, err
	}

	return ap.processAllInRaise(player, player.Chips, currentBet, minRaise)
}
