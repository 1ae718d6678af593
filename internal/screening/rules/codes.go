package rules

// RemedyCode names a recommended filing or visa path.
type RemedyCode string

const (
	RemedyProvisionalWaiver RemedyCode = "I601A"
	RemedyWaiver            RemedyCode = "I601"
	RemedyPermissionReapply RemedyCode = "I212"
	RemedyCriminalWaiver    RemedyCode = "212H"
	RemedyFraudWaiver       RemedyCode = "212I"
	RemedyFamilyPetition    RemedyCode = "I130"
	RemedyAdjustment        RemedyCode = "I485"
	RemedyAdjustment245i    RemedyCode = "I485_245I"
	RemedyConsular          RemedyCode = "CONSULAR_PROCESSING"
	RemedyJointSponsor      RemedyCode = "I864_JOINT_SPONSOR"
	RemedyRemoveConditions  RemedyCode = "I751"
	RemedyH1B               RemedyCode = "H1B"
	RemedyH1BCapExempt      RemedyCode = "H1B_CAP_EXEMPT"
	RemedyL1A               RemedyCode = "L1A"
	RemedyL1B               RemedyCode = "L1B"
	RemedyO1                RemedyCode = "O1"
	RemedyEB1A              RemedyCode = "EB1A"
	RemedyTN                RemedyCode = "TN"
	RemedyNIW               RemedyCode = "EB2_NIW"
	RemedyPERM              RemedyCode = "PERM"
)

// FlagCode names a triggered risk or inadmissibility ground.
type FlagCode string

const (
	FlagAggravatedFelony       FlagCode = "AGGRAVATED_FELONY"
	FlagControlledSubstance    FlagCode = "CONTROLLED_SUBSTANCE"
	FlagMoralTurpitude         FlagCode = "CRIME_MORAL_TURPITUDE"
	FlagAggregateSentence      FlagCode = "AGGREGATE_SENTENCE"
	FlagCriminalConviction     FlagCode = "CRIMINAL_CONVICTION"
	FlagAdamWalsh              FlagCode = "ADAM_WALSH_ACT"
	FlagFalseClaimCitizenship  FlagCode = "FALSE_CLAIM_CITIZENSHIP"
	FlagMisrepresentation      FlagCode = "MISREPRESENTATION"
	FlagDocumentFraud          FlagCode = "DOCUMENT_FRAUD"
	FlagMarriageFraudBar       FlagCode = "MARRIAGE_FRAUD_BAR"
	FlagPermanentBar           FlagCode = "PERMANENT_BAR"
	FlagPriorRemoval           FlagCode = "PRIOR_REMOVAL"
	FlagTenYearBar             FlagCode = "TEN_YEAR_BAR"
	FlagThreeYearBar           FlagCode = "THREE_YEAR_BAR"
	FlagPresenceAccrued        FlagCode = "UNLAWFUL_PRESENCE_ACCRUED"
	FlagEntryWithoutInspection FlagCode = "ENTRY_WITHOUT_INSPECTION"
	FlagNoQualifyingRelative   FlagCode = "NO_QUALIFYING_RELATIVE"
	FlagWeakHardship           FlagCode = "WEAK_HARDSHIP"
	FlagAffidavitShortfall     FlagCode = "AFFIDAVIT_SHORTFALL"
	FlagIneligibleRelationship FlagCode = "INELIGIBLE_RELATIONSHIP"
	FlagBonaFides              FlagCode = "BONA_FIDES_CONCERN"
	FlagMarriageInProceedings  FlagCode = "MARRIAGE_DURING_PROCEEDINGS"
	FlagOutOfStatus            FlagCode = "OUT_OF_STATUS"
	FlagCapLottery             FlagCode = "H1B_CAP_LOTTERY"
	FlagWageBelowPrevailing    FlagCode = "WAGE_BELOW_PREVAILING"
	FlagDegreeMismatch         FlagCode = "DEGREE_MISMATCH"
	FlagShortAffiliateTenure   FlagCode = "SHORT_AFFILIATE_TENURE"
)

// Category groups flags for display and for the review override.
type Category string

const (
	CategoryCriminal    Category = "criminal"
	CategoryFraud       Category = "fraud"
	CategoryBar         Category = "bar"
	CategoryRemoval     Category = "removal"
	CategoryEligibility Category = "eligibility"
	CategoryFinancial   Category = "financial"
	CategoryEvidence    Category = "evidence"
)

// FlagInfo is the catalogue entry of a flag.
type FlagInfo struct {
	Code     FlagCode `json:"code"`
	Category Category `json:"category"`
	// ForcesReview sets the probability to AttorneyReviewRequired whatever
	// the risk score.
	ForcesReview bool `json:"forces_review"`
}

var flagCatalogue = map[FlagCode]FlagInfo{}

func init() {
	register := func(c Category, review bool, codes ...FlagCode) {
		for _, code := range codes {
			flagCatalogue[code] = FlagInfo{Code: code, Category: c, ForcesReview: review}
		}
	}
	register(CategoryCriminal, true,
		FlagAggravatedFelony, FlagControlledSubstance, FlagMoralTurpitude,
		FlagAggregateSentence, FlagCriminalConviction, FlagAdamWalsh)
	register(CategoryFraud, true,
		FlagFalseClaimCitizenship, FlagMisrepresentation, FlagDocumentFraud, FlagMarriageFraudBar)
	register(CategoryBar, true, FlagPermanentBar)
	register(CategoryBar, false, FlagTenYearBar, FlagThreeYearBar, FlagPresenceAccrued, FlagEntryWithoutInspection)
	register(CategoryRemoval, false, FlagPriorRemoval)
	register(CategoryEligibility, false,
		FlagNoQualifyingRelative, FlagIneligibleRelationship, FlagBonaFides, FlagMarriageInProceedings,
		FlagOutOfStatus, FlagCapLottery, FlagWageBelowPrevailing, FlagDegreeMismatch, FlagShortAffiliateTenure)
	register(CategoryFinancial, false, FlagAffidavitShortfall)
	register(CategoryEvidence, false, FlagWeakHardship)
}

// Flag returns the catalogue entry of a flag code.
func Flag(code FlagCode) (FlagInfo, bool) {
	info, ok := flagCatalogue[code]
	return info, ok
}

// GuidanceCode names a next-step guidance message. Message text lives with
// the presenter so it can be translated.
type GuidanceCode string

const (
	GuidanceCriminalCounsel       GuidanceCode = "criminal_immigration_counsel"
	GuidancePettyMarijuana        GuidanceCode = "petty_marijuana_exception"
	GuidanceCourtDispositions     GuidanceCode = "obtain_certified_dispositions"
	GuidanceRehabilitation        GuidanceCode = "rehabilitation_evidence"
	GuidanceFalseClaimNoWaiver    GuidanceCode = "false_claim_no_waiver"
	GuidanceFraudWaiverEvidence   GuidanceCode = "fraud_waiver_evidence"
	GuidanceTenYearsAbroad        GuidanceCode = "permanent_bar_ten_years_abroad"
	GuidanceRequestRecords        GuidanceCode = "request_immigration_records"
	GuidanceRemovalBarElapsed     GuidanceCode = "removal_bar_elapsed"
	GuidanceBarPeriodElapsed      GuidanceCode = "bar_period_elapsed"
	GuidanceDoNotDepart           GuidanceCode = "do_not_depart_before_provisional_waiver"
	GuidanceConsularRequired      GuidanceCode = "consular_processing_required"
	GuidanceHardshipEvidence      GuidanceCode = "document_hardship_factors"
	GuidanceQualifyingRelative    GuidanceCode = "identify_qualifying_relative"
	GuidanceJointSponsor          GuidanceCode = "joint_sponsor_documents"
	GuidanceIncomeEvidence        GuidanceCode = "income_evidence"
	GuidanceImmediateRelative     GuidanceCode = "immediate_relative_no_backlog"
	GuidancePreferenceWait        GuidanceCode = "preference_category_wait"
	GuidanceConcurrentFiling      GuidanceCode = "file_concurrent_i485"
	GuidanceConditionalResidence  GuidanceCode = "conditional_residence_i751"
	GuidanceBonaFideEvidence      GuidanceCode = "bona_fide_marriage_evidence"
	GuidanceClearConvincing       GuidanceCode = "clear_and_convincing_evidence"
	GuidanceOverstayForgiven      GuidanceCode = "overstay_forgiven_immediate_relative"
	GuidanceRegistrationWindow    GuidanceCode = "h1b_registration_window"
	GuidancePortability           GuidanceCode = "h1b_transfer_portability"
	GuidanceWageLevel             GuidanceCode = "raise_offered_wage"
	GuidanceExtraordinaryEvidence GuidanceCode = "extraordinary_ability_evidence"
	GuidanceNationalInterest      GuidanceCode = "national_interest_evidence"
	GuidanceLaborCertification    GuidanceCode = "labor_certification"
	GuidanceChangeOfStatusBlocked GuidanceCode = "change_of_status_unavailable"
	GuidanceAffiliateTenure       GuidanceCode = "affiliate_tenure"
	GuidanceCredentialEvaluation  GuidanceCode = "credential_evaluation"
	GuidanceAttorneyConsultation  GuidanceCode = "schedule_attorney_consultation"
	GuidanceTreatyProfession      GuidanceCode = "tn_profession_list"
)
