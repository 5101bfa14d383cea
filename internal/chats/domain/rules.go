package domain

import "regexp"

// Rule declares how one evidence category is matched: the inclusion
// patterns, exclusion patterns checked before accepting a hit, the author
// role the hit must come from ("" = any), and the minimum number of
// distinct patterns that must corroborate before the category counts as
// matched. Patterns cover English and Russian independently; a hit in
// either language sets the category.
type Rule struct {
	Category        Category
	Patterns        []*regexp.Regexp
	ExcludePatterns []*regexp.Regexp
	RequiredRole    AuthorRole
	MinHints        int
}

// DefaultRules is the fixed category taxonomy. Kept as one declarative
// table so every consumer matches the same way.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category:     CategoryQuestionnaireSent,
			RequiredRole: RoleTeam,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)send (us |over )?your details`),
				regexp.MustCompile(`(?i)answer the questions`),
				regexp.MustCompile(`(?i)fill (in |out )?the (brief|questionnaire|form)`),
				regexp.MustCompile(`(?i)share (your )?(requirements|criteria)`),
				regexp.MustCompile(`(?i)заполни(те)? (бриф|анкету|форму)`),
				regexp.MustCompile(`(?i)ответь(те)? на вопросы`),
				regexp.MustCompile(`(?i)пришли(те)? (ваши |свои )?(данные|требования)`),
			},
		},
		{
			Category:     CategoryClientProvidedData,
			RequiredRole: RoleExternal,
			// A single keyword is too weak a signal that the client actually
			// delivered their inputs; require two corroborating hints.
			MinHints: 2,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)here (are|is) (the |our )?(answers|details|data|brief)`),
				regexp.MustCompile(`(?i)(attached|filled (in|out)|completed) the (brief|form|questionnaire)`),
				regexp.MustCompile(`(?i)our (target )?(audience|budget|goals|kpis)`),
				regexp.MustCompile(`(?i)вот (наши )?(ответы|данные|материалы)`),
				regexp.MustCompile(`(?i)заполнили (бриф|анкету|форму)`),
				regexp.MustCompile(`(?i)наш(а|и)? (бюджет|аудитория|цели)`),
			},
		},
		{
			Category: CategoryContractOffer,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)please sign`),
				regexp.MustCompile(`(?i)sign (the )?(sow|contract|agreement)`),
				regexp.MustCompile(`(?i)(awaiting|waiting for) (the )?(sow|contract|signature)`),
				regexp.MustCompile(`(?i)sent (the |you the )?(sow|contract|agreement)`),
				regexp.MustCompile(`(?i)подпиши(те)?`),
				regexp.MustCompile(`(?i)(отправили|выслали) договор`),
				regexp.MustCompile(`(?i)жд(ем|ём) подписани`),
			},
		},
		{
			Category: CategoryContractSigned,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(sow|contract|agreement) (is )?signed`),
				regexp.MustCompile(`(?i)counter-?signed`),
				regexp.MustCompile(`(?i)fully executed`),
				regexp.MustCompile(`(?i)договор подписан`),
				regexp.MustCompile(`(?i)подписали договор`),
			},
		},
		{
			Category: CategoryInvoiceSent,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)invoice (sent|attached|issued)`),
				regexp.MustCompile(`(?i)here('s| is) the invoice`),
				regexp.MustCompile(`(?i)send (the )?invoice`),
				regexp.MustCompile(`(?i)(wire|payment) details`),
				regexp.MustCompile(`(?i)when can you pay`),
				regexp.MustCompile(`(?i)payment pending`),
				regexp.MustCompile(`(?i)awaiting payment`),
				regexp.MustCompile(`(?i)выставили сч(е|ё)т`),
				regexp.MustCompile(`(?i)сч(е|ё)т (во вложении|отправлен|прикреплен)`),
				regexp.MustCompile(`(?i)реквизиты`),
				regexp.MustCompile(`(?i)жд(ем|ём) оплат`),
			},
		},
		{
			Category: CategoryPaymentConfirmed,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)payment (received|done|confirmed)`),
				regexp.MustCompile(`(?i)we have paid`),
				regexp.MustCompile(`(?i)paid the invoice`),
				regexp.MustCompile(`(?i)wire confirmed`),
				regexp.MustCompile(`(?i)\btxid\b`),
				regexp.MustCompile(`(?i)оплатили`),
				regexp.MustCompile(`(?i)оплата (прошла|получена)`),
				regexp.MustCompile(`(?i)плат(е|ё)ж (прош(е|ё)л|получен)`),
			},
			// Common false positives: "paid plan", "paid promotion" and the
			// like are talk about paid media, not invoice settlement.
			ExcludePatterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)paid (plan|promotion|ads?|media|partnership|traffic|posts?)`),
				regexp.MustCompile(`(?i)платн(ый|ая|ое|ые)`),
			},
		},
		{
			Category: CategoryPaymentNegated,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(have )?not (yet )?(received|sent|made) (the )?payment`),
				regexp.MustCompile(`(?i)haven'?t (received|sent|made) (the )?payment`),
				regexp.MustCompile(`(?i)not (yet )?paid`),
				regexp.MustCompile(`(?i)payment (has )?not (arrived|cleared|gone through)`),
				regexp.MustCompile(`(?i)не оплатили`),
				regexp.MustCompile(`(?i)еще не оплат|ещ(е|ё) не оплат`),
				regexp.MustCompile(`(?i)оплата не прошла`),
				regexp.MustCompile(`(?i)пока не (о)?плат`),
			},
		},
		{
			Category: CategoryPrepaymentAllowed,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)prepayment`),
				regexp.MustCompile(`(?i)advance payment`),
				regexp.MustCompile(`(?i)pay (before|upfront)`),
				regexp.MustCompile(`(?i)предоплат`),
				regexp.MustCompile(`(?i)\bаванс`),
			},
		},
		{
			Category: CategoryPreLaunchDataOps,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(kol|influencer|creator).{0,40}(list|shortlist|selection|brief)`),
				regexp.MustCompile(`(?i)creatives?\b`),
				regexp.MustCompile(`(?i)(assets|visuals) (are )?(ready|in progress|attached)`),
				regexp.MustCompile(`(?i)контент-план`),
				regexp.MustCompile(`(?i)креатив`),
				regexp.MustCompile(`(?i)подборк(а|у) (кол|инфлюенсер|блогер)`),
			},
		},
		{
			Category: CategoryCampaignLaunched,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)kick(ed)?[ -]?off`),
				regexp.MustCompile(`(?i)go(ing)? live`),
				regexp.MustCompile(`(?i)campaign (is )?live`),
				regexp.MustCompile(`(?i)launch(ed)?\b`),
				regexp.MustCompile(`(?i)posts are live`),
				regexp.MustCompile(`(?i)content published`),
				regexp.MustCompile(`(?i)запустили`),
				regexp.MustCompile(`(?i)кампания запущена`),
				regexp.MustCompile(`(?i)посты вышли|вышли посты`),
			},
		},
		{
			Category: CategoryReportDue,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)report (is )?(due|pending)`),
				regexp.MustCompile(`(?i)(awaiting|waiting for) (the )?report`),
				regexp.MustCompile(`(?i)жд(ем|ём) отч(е|ё)т`),
				regexp.MustCompile(`(?i)когда (будет )?отч(е|ё)т`),
			},
		},
		{
			Category: CategoryReportDelivered,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)final report`),
				regexp.MustCompile(`(?i)report (delivered|attached|sent)`),
				regexp.MustCompile(`(?i)results attached`),
				regexp.MustCompile(`(?i)post-?mortem`),
				regexp.MustCompile(`(?i)wrap(ped)?[ -]?up`),
				regexp.MustCompile(`(?i)campaign (is )?finished`),
				regexp.MustCompile(`(?i)финальный отч(е|ё)т`),
				regexp.MustCompile(`(?i)отч(е|ё)т (во вложении|отправлен|готов)`),
				regexp.MustCompile(`(?i)кампания завершена`),
			},
		},
	}
}
