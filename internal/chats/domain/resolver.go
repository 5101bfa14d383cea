package domain

// ResolveStage turns extracted evidence into a single stage label. Stages
// are evaluated from most advanced to least advanced and the first whose
// gating condition holds wins, so the strongest evidence always trumps
// weaker, earlier-stage signals. With no evidence at all the conversation
// is Talking, the conservative default: when unsure, under-report progress
// rather than over-report contractual or financial milestones.
func ResolveStage(evidence EvidenceSet) Stage {
	stages := Stages()
	for i := len(stages) - 1; i >= 0; i-- {
		if stageGateHolds(stages[i], evidence) {
			return stages[i]
		}
	}
	return StageTalking
}

// moneyGateHolds blocks payment stages in pre-contract conversations:
// payment chatter counts only after the contract is signed, or when a
// prepayment arrangement was explicitly discussed.
func moneyGateHolds(evidence EvidenceSet) bool {
	return evidence.Matched(CategoryContractSigned) || evidence.Matched(CategoryPrepaymentAllowed)
}

// paymentConfirmedHolds applies the negation tie-break: an explicit "not
// yet paid" statement that is textually newer than the confirmation
// invalidates it.
func paymentConfirmedHolds(evidence EvidenceSet) bool {
	if !evidence.Matched(CategoryPaymentConfirmed) {
		return false
	}
	if !evidence.Matched(CategoryPaymentNegated) {
		return true
	}
	return !evidence.LastMatchedAt(CategoryPaymentNegated).After(evidence.LastMatchedAt(CategoryPaymentConfirmed))
}

// MoneyStageAllowed re-verifies a proposed money stage against the same
// gates ResolveStage applies. Non-money stages always pass. Used to contain
// the refiner: it can never introduce a payment milestone the rule evidence
// does not support.
func MoneyStageAllowed(stage Stage, evidence EvidenceSet) bool {
	switch stage {
	case StagePaid:
		return moneyGateHolds(evidence) && paymentConfirmedHolds(evidence)
	case StageAwaitingPayment:
		return moneyGateHolds(evidence)
	default:
		return true
	}
}

func stageGateHolds(stage Stage, evidence EvidenceSet) bool {
	switch stage {
	case StageFinished:
		return evidence.Matched(CategoryReportDelivered)
	case StageReportAwaiting:
		return evidence.Matched(CategoryReportDue)
	case StageCampaignLaunched:
		return evidence.Matched(CategoryCampaignLaunched)
	case StageDataCollection:
		return evidence.Matched(CategoryPreLaunchDataOps)
	case StagePaid:
		return moneyGateHolds(evidence) && paymentConfirmedHolds(evidence)
	case StageAwaitingPayment:
		return moneyGateHolds(evidence) &&
			(evidence.Matched(CategoryInvoiceSent) || evidence.Matched(CategoryPaymentNegated))
	case StageContractSigned:
		return evidence.Matched(CategoryContractSigned)
	case StageAwaitingContract:
		return evidence.Matched(CategoryContractOffer)
	case StageAwaitingData:
		return evidence.Matched(CategoryQuestionnaireSent) && !evidence.Matched(CategoryClientProvidedData)
	case StageTalking:
		return true
	default:
		return false
	}
}
