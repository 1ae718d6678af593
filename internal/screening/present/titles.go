package present

import "lexscreen/internal/screening/rules"

var remedyTitles = map[rules.RemedyCode]string{
	rules.RemedyProvisionalWaiver: "Provisional unlawful presence waiver (Form I-601A)",
	rules.RemedyWaiver:            "Waiver of inadmissibility (Form I-601)",
	rules.RemedyPermissionReapply: "Permission to reapply after removal (Form I-212)",
	rules.RemedyCriminalWaiver:    "Criminal grounds waiver (INA 212(h))",
	rules.RemedyFraudWaiver:       "Fraud or misrepresentation waiver (INA 212(i))",
	rules.RemedyFamilyPetition:    "Petition for alien relative (Form I-130)",
	rules.RemedyAdjustment:        "Adjustment of status (Form I-485)",
	rules.RemedyAdjustment245i:    "Adjustment of status under INA 245(i)",
	rules.RemedyConsular:          "Consular processing",
	rules.RemedyJointSponsor:      "Joint sponsor affidavit of support (Form I-864)",
	rules.RemedyRemoveConditions:  "Petition to remove conditions on residence (Form I-751)",
	rules.RemedyH1B:               "H-1B specialty occupation",
	rules.RemedyH1BCapExempt:      "Cap-exempt H-1B",
	rules.RemedyL1A:               "L-1A intracompany manager or executive",
	rules.RemedyL1B:               "L-1B specialized knowledge",
	rules.RemedyO1:                "O-1 extraordinary ability",
	rules.RemedyEB1A:              "EB-1A extraordinary ability green card",
	rules.RemedyTN:                "TN USMCA professional",
	rules.RemedyNIW:               "EB-2 national interest waiver",
	rules.RemedyPERM:              "PERM labor certification",
}

var flagTitles = map[rules.FlagCode]string{
	rules.FlagAggravatedFelony:       "Aggravated felony conviction",
	rules.FlagControlledSubstance:    "Controlled substance offense",
	rules.FlagMoralTurpitude:         "Crime involving moral turpitude",
	rules.FlagAggregateSentence:      "Multiple convictions, aggregate sentence of 5 years or more",
	rules.FlagCriminalConviction:     "Criminal conviction",
	rules.FlagAdamWalsh:              "Petitioner convicted of a specified offense against a minor",
	rules.FlagFalseClaimCitizenship:  "False claim to U.S. citizenship",
	rules.FlagMisrepresentation:      "Willful misrepresentation",
	rules.FlagDocumentFraud:          "Document fraud",
	rules.FlagMarriageFraudBar:       "Prior marriage fraud finding",
	rules.FlagPermanentBar:           "Permanent bar (INA 212(a)(9)(C))",
	rules.FlagPriorRemoval:           "Prior removal order",
	rules.FlagTenYearBar:             "Ten-year unlawful presence bar",
	rules.FlagThreeYearBar:           "Three-year unlawful presence bar",
	rules.FlagPresenceAccrued:        "Unlawful presence accrued",
	rules.FlagEntryWithoutInspection: "Entry without inspection",
	rules.FlagNoQualifyingRelative:   "No qualifying relative for a waiver",
	rules.FlagWeakHardship:           "Few hardship factors",
	rules.FlagAffidavitShortfall:     "Sponsor income below 125% of poverty guidelines",
	rules.FlagIneligibleRelationship: "Relationship not eligible for a family petition",
	rules.FlagBonaFides:              "Bona fide marriage evidence concern",
	rules.FlagMarriageInProceedings:  "Marriage during removal proceedings",
	rules.FlagOutOfStatus:            "Currently out of status",
	rules.FlagCapLottery:             "Subject to the H-1B cap lottery",
	rules.FlagWageBelowPrevailing:    "Offered wage below prevailing wage",
	rules.FlagDegreeMismatch:         "Degree does not match the occupation",
	rules.FlagShortAffiliateTenure:   "Less than one year with the foreign affiliate",
}

var probabilityLabels = map[rules.Probability]string{
	rules.ProbabilityHigh:           "Your answers suggest a strong path forward.",
	rules.ProbabilityModerate:       "Your answers suggest a possible path with some complications.",
	rules.ProbabilityAttorneyReview: "Your answers need review by an attorney before we can suggest a path.",
}

// RemedyTitle returns the display title of a remedy, or its code.
func RemedyTitle(code rules.RemedyCode) string {
	if t, ok := remedyTitles[code]; ok {
		return t
	}
	return string(code)
}

// FlagTitle returns the display title of a flag, or its code.
func FlagTitle(code rules.FlagCode) string {
	if t, ok := flagTitles[code]; ok {
		return t
	}
	return string(code)
}
