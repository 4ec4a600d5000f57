package dialect

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tedimport/awards/codes"
	"github.com/tedimport/awards/schema"
	"github.com/tedimport/awards/valueparse"
	"github.com/tedimport/awards/xmlutil"
)

// UBLParser handles the eForms UBL ContractAwardNotice dialect (2025+).
// Awards are resolved through ID cross-references between sibling
// elements under NoticeResult rather than by direct nesting, so the
// parser builds a handful of lookup maps before walking lot results.
type UBLParser struct {
	Log *zap.Logger

	// MinAwardYear rejects a document-level AwardDate earlier than this
	// year as a placeholder (eForms uses 2000-01-01 as a sentinel for
	// "not yet known"). Per spec this cutoff is a parameter, not a
	// hardcoded constant — callers may adjust it.
	MinAwardYear int
}

func (p *UBLParser) minAwardYear() int {
	if p.MinAwardYear == 0 {
		return 2005
	}
	return p.MinAwardYear
}

func (p *UBLParser) warn(msg string, fields ...zap.Field) {
	if p.Log != nil {
		p.Log.Warn(msg, fields...)
	}
}

var (
	yearSuffix   = regexp.MustCompile(`_(\d{4})$`)
	bareISODate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Parse implements Parser.
func (p *UBLParser) Parse(path string) (*schema.Notice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, &Malformed{Path: path, Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &Malformed{Path: path, Err: fmt.Errorf("empty document")}
	}

	document := p.extractDocument(root, path)
	if document == nil {
		return nil, nil
	}

	buyer, contact := p.extractBuyer(root)
	if buyer == nil {
		return nil, nil
	}
	document.ContactPoint = nil
	document.Phone = xmlutil.Ptr(contact.phone)
	document.Email = xmlutil.Ptr(contact.email)
	document.URLGeneral = xmlutil.Ptr(contact.urlGeneral)

	contract := p.extractContract(root)
	if contract == nil {
		return nil, nil
	}

	awards := p.extractAwards(root)
	if len(awards) == 0 {
		return nil, nil
	}

	return &schema.Notice{
		Document: *document,
		Buyer:    *buyer,
		Contract: *contract,
		Awards:   awards,
	}, nil
}

func (p *UBLParser) extractDocument(root *etree.Element, path string) *schema.Document {
	docID := filepath.Base(path)
	docID = strings.TrimSuffix(docID, filepath.Ext(docID))
	docID = yearSuffix.ReplaceAllString(docID, "-$1")

	pubText := firstNonEmpty(
		xmlutil.FindText(root, "//Publication/PublicationDate"),
		xmlutil.FindText(root, "//IssueDate"),
		xmlutil.FindText(root, "//SettledContract/IssueDate"),
		xmlutil.FindText(root, "//ContractAwardNotice/IssueDate"),
	)
	if pubText == "" {
		return nil
	}
	pubDate, ok := valueparse.ParseDateISOOffset(pubText)
	if !ok {
		pubDate, ok = valueparse.ParseDateISO(pubText)
	}
	if !ok {
		return nil
	}
	pubTime := dateToTimePtr(pubDate)

	country := xmlutil.FindText(root, "//Country/IdentificationCode")

	year := pubTime.Year()
	dayOfYear := pubTime.YearDay()
	officialRef := fmt.Sprintf("%d/S %03d-%s", year, dayOfYear, docID)

	return &schema.Document{
		DocID:              docID,
		Edition:            xmlutil.Ptr(fmt.Sprintf("%d%03d", year, dayOfYear)),
		Version:            xmlutil.Ptr("eForms-UBL"),
		OfficialJournalRef: xmlutil.Ptr(officialRef),
		PublicationDate:    pubTime,
		DispatchDate:       pubTime,
		SourceCountry:      xmlutil.Ptr(strings.ToUpper(country)),
	}
}

func (p *UBLParser) extractBuyer(root *etree.Element) (*schema.Organization, contactFields) {
	contractingPartyID := xmlutil.FindText(root, "//ContractingParty//PartyIdentification/ID")

	orgs := root.FindElements("//Organizations/Organization")

	var company *etree.Element
	if contractingPartyID == "" {
		if len(orgs) > 0 {
			company = orgs[0].FindElement(".//Company")
		}
	} else {
		for _, org := range orgs {
			c := org.FindElement(".//Company")
			if c == nil {
				continue
			}
			orgID := xmlutil.FindText(c, ".//PartyIdentification/ID")
			if orgID == contractingPartyID {
				company = c
				break
			}
		}
	}

	if company == nil {
		return nil, contactFields{}
	}

	org, fields := p.companyToOrganization(company)
	if org == nil {
		return nil, contactFields{}
	}
	return org, fields
}

type companyContact = contactFields

func (p *UBLParser) companyToOrganization(company *etree.Element) (*schema.Organization, companyContact) {
	name := xmlutil.FindText(company, ".//PartyName/Name")
	address := xmlutil.FindText(company, ".//PostalAddress/StreetName")
	town := xmlutil.FindText(company, ".//PostalAddress/CityName")
	postal := xmlutil.FindText(company, ".//PostalAddress/PostalZone")
	country := xmlutil.FindText(company, ".//PostalAddress/Country/IdentificationCode")
	nuts := xmlutil.FindText(company, ".//PostalAddress/CountrySubentityCode")
	phone := xmlutil.FindText(company, ".//Contact/Telephone")
	email := xmlutil.FindText(company, ".//Contact/ElectronicMail")
	url := xmlutil.FindText(company, ".//WebsiteURI")

	org := &schema.Organization{
		OfficialName: name,
		Address:      xmlutil.Ptr(address),
		Town:         xmlutil.Ptr(town),
		PostalCode:   xmlutil.Ptr(postal),
		CountryCode:  xmlutil.Ptr(strings.ToUpper(country)),
		NUTSCode:     xmlutil.Ptr(nuts),
		Identifiers:  p.companyIdentifiers(company),
	}
	return org, companyContact{phone: phone, email: email, urlGeneral: url}
}

func (p *UBLParser) companyIdentifiers(company *etree.Element) []schema.Identifier {
	idEl := company.FindElement(".//PartyLegalEntity/CompanyID")
	if idEl == nil {
		return nil
	}
	companyID := xmlutil.Text(idEl)
	if companyID == "" {
		return nil
	}
	scheme, _ := xmlutil.Attr(idEl, "schemeName")
	if schemeID, ok := xmlutil.Attr(idEl, "schemeID"); ok && schemeID != "" {
		p.warn("CompanyID carries a schemeID outside the eForms SDK",
			zap.String("schemeID", schemeID), zap.String("value", companyID))
	}
	return []schema.Identifier{{Scheme: xmlutil.Ptr(scheme), Value: companyID}}
}

func (p *UBLParser) extractContract(root *etree.Element) *schema.Contract {
	title := xmlutil.FindText(root, "//SettledContract/Title")

	mainCode := xmlutil.FindText(root, "ProcurementProject/MainCommodityClassification/ItemClassificationCode")
	additional := root.FindElements("ProcurementProject/AdditionalCommodityClassification/ItemClassificationCode")

	natureCode := xmlutil.FindText(root, "//ProcurementProject/ProcurementTypeCode")
	procCode := xmlutil.FindText(root, "//TenderingProcess/ProcedureCode")

	nutsCode := firstNonEmpty(
		xmlutil.FindText(root, "//ProcurementProjectLot//RealizedLocation//CountrySubentityCode"),
		xmlutil.FindText(root, "//ProcurementProject/RealizedLocation//CountrySubentityCode"),
	)

	var cpvCodes []schema.CPVCode
	if mainCode != "" {
		cpvCodes = append(cpvCodes, schema.CPVCode{Code: mainCode})
	}
	for _, el := range additional {
		code := xmlutil.Text(el)
		if code != "" {
			cpvCodes = append(cpvCodes, schema.CPVCode{Code: code})
		}
	}

	procedureType, accelerated := codes.NormalizeProcedureType(p.Log, procCode, "")

	if !accelerated {
		accelText := xmlutil.FindText(root, `//TenderingProcess/ProcessJustification/ProcessReasonCode`)
		if accelText == "true" {
			accelerated = true
		}
	}

	var estimatedValue *decimal.Decimal
	var estimatedCurrency string
	if el := root.FindElement("//ProcurementProjectLot/ProcurementProject/RequestedTenderTotal/EstimatedOverallContractAmount"); el != nil {
		text := xmlutil.Text(el)
		if v, ok := valueparse.ParseMonetary(text); ok {
			estimatedValue = &v
			estimatedCurrency, _ = xmlutil.Attr(el, "currencyID")
		}
	}

	framework := false
	if v := xmlutil.FindText(root, `//ProcurementProjectLot//ContractingSystemTypeCode`); v != "" && v != "none" {
		framework = true
	}

	euFunded := xmlutil.FindText(root, `//ProcurementProjectLot//FundingProgramCode`) == "eu-funds"

	return &schema.Contract{
		Title:                  title,
		ShortDescription:       xmlutil.Ptr(title),
		MainCPVCode:            xmlutil.Ptr(mainCode),
		CPVCodes:               cpvCodes,
		NUTSCode:               xmlutil.Ptr(nutsCode),
		ContractNatureCode:     codes.NormalizeContractNature(p.Log, natureCode),
		ProcedureType:          procedureType,
		Accelerated:            accelerated,
		FrameworkAgreement:     framework,
		EUFunded:               euFunded,
		EstimatedValue:         estimatedValue,
		EstimatedValueCurrency: xmlutil.Ptr(estimatedCurrency),
	}
}

func (p *UBLParser) extractAwards(root *etree.Element) []schema.Award {
	orgLookup := map[string]*etree.Element{}
	for _, org := range root.FindElements("//Organizations/Organization") {
		company := org.FindElement(".//Company")
		if company == nil {
			continue
		}
		orgID := xmlutil.FindText(company, ".//PartyIdentification/ID")
		if orgID != "" {
			orgLookup[orgID] = company
		}
	}

	lotTenders := map[string]*etree.Element{}
	for _, lt := range root.FindElements("//NoticeResult/LotTender") {
		if id := xmlutil.FindText(lt, "ID"); id != "" {
			lotTenders[id] = lt
		}
	}

	settledContracts := map[string]*etree.Element{}
	for _, sc := range root.FindElements("//NoticeResult/SettledContract") {
		if id := xmlutil.FindText(sc, "ID"); id != "" {
			settledContracts[id] = sc
		}
	}

	tenderingParties := map[string]*etree.Element{}
	for _, tp := range root.FindElements("//NoticeResult/TenderingParty") {
		if id := xmlutil.FindText(tp, "ID"); id != "" {
			tenderingParties[id] = tp
		}
	}

	type period struct {
		start, end *time.Time
	}
	lotPeriods := map[string]period{}
	for _, lotEl := range root.FindElements("//ProcurementProjectLot") {
		lotID := xmlutil.FindText(lotEl, "ID")
		if lotID == "" {
			continue
		}
		var pr period
		if s := xmlutil.FindText(lotEl, "//PlannedPeriod/StartDate"); s != "" {
			if d, ok := valueparse.ParseDateISOOffset(d2(s)); ok {
				pr.start = dateToTimePtr(d)
			}
		}
		if e := xmlutil.FindText(lotEl, "//PlannedPeriod/EndDate"); e != "" {
			if d, ok := valueparse.ParseDateISOOffset(d2(e)); ok {
				pr.end = dateToTimePtr(d)
			}
		}
		lotPeriods[lotID] = pr
	}

	var awardDate *time.Time
	if text := xmlutil.FindText(root, "//TenderResult/AwardDate"); text != "" {
		if d, ok := valueparse.ParseDateISOOffset(d2(text)); ok {
			t := dateToTimePtr(d)
			if t.Year() >= p.minAwardYear() {
				awardDate = t
			}
		}
	}

	var awards []schema.Award
	for _, lotResult := range root.FindElements("//LotResult") {
		lotNumber := xmlutil.FindText(lotResult, "TenderLot/ID")

		tenderID := xmlutil.FindText(lotResult, "LotTender/ID")

		var awardedValue *decimal.Decimal
		var awardedCurrency string
		var partyID string
		if tenderID != "" {
			if lotTender, ok := lotTenders[tenderID]; ok {
				if amountEl := lotTender.FindElement("LegalMonetaryTotal/PayableAmount"); amountEl != nil {
					text := xmlutil.Text(amountEl)
					if v, ok := valueparse.ParseMonetary(text); ok {
						awardedValue = &v
						awardedCurrency, _ = xmlutil.Attr(amountEl, "currencyID")
					}
				}
				partyID = xmlutil.FindText(lotTender, "TenderingParty/ID")
			}
		}

		contractID := xmlutil.FindText(lotResult, "SettledContract/ID")
		var awardTitle, contractNumber string
		if contractID != "" {
			if sc, ok := settledContracts[contractID]; ok {
				awardTitle = xmlutil.FindText(sc, "Title")
				contractNumber = xmlutil.FindText(sc, "ContractReference/ID")
			}
		}

		tendersReceived := p.extractTendersReceived(lotResult)

		var contractors []schema.Organization
		if partyID != "" {
			if tp, ok := tenderingParties[partyID]; ok {
				for _, orgIDEl := range tp.FindElements("Tenderer/ID") {
					orgID := xmlutil.Text(orgIDEl)
					company, ok := orgLookup[orgID]
					if !ok {
						continue
					}
					contractor, _ := p.companyToOrganization(company)
					if contractor != nil && contractor.OfficialName != "" {
						contractors = append(contractors, *contractor)
					}
				}
			}
		}

		pr := lotPeriods[lotNumber]

		awards = append(awards, schema.Award{
			AwardTitle:           xmlutil.Ptr(awardTitle),
			ContractNumber:       xmlutil.Ptr(contractNumber),
			AwardedValue:         awardedValue,
			AwardedValueCurrency: xmlutil.Ptr(awardedCurrency),
			TendersReceived:      tendersReceived,
			AwardDate:            awardDate,
			LotNumber:            xmlutil.Ptr(lotNumber),
			ContractStartDate:    pr.start,
			ContractEndDate:      pr.end,
			Contractors:          contractors,
		})
	}
	return awards
}

// extractTendersReceived reads the count reported under the "tenders"
// statistics code, e.g.
//
//	<ReceivedSubmissionsStatistics>
//	  <StatisticsCode>tenders</StatisticsCode>
//	  <StatisticsNumeric>3</StatisticsNumeric>
//	</ReceivedSubmissionsStatistics>
func (p *UBLParser) extractTendersReceived(lotResult *etree.Element) *int {
	for _, stats := range lotResult.FindElements("ReceivedSubmissionsStatistics") {
		if xmlutil.FindText(stats, "StatisticsCode") != "tenders" {
			continue
		}
		text := xmlutil.FindText(stats, "StatisticsNumeric")
		n, ok := valueparse.ParseOptionalInt(text)
		if !ok {
			p.warn("unparseable tenders_received value", zap.String("text", text))
			return nil
		}
		return &n
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// d2 normalizes a lone ISO date (no offset) to the ISO-offset parser's
// expected shape by appending "Z" — eForms period dates sometimes omit
// the timezone entirely even though the schema allows one.
func d2(s string) string {
	if bareISODate.MatchString(s) {
		return s + "Z"
	}
	return s
}
