package dialect

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tedimport/awards/codes"
	"github.com/tedimport/awards/schema"
	"github.com/tedimport/awards/types"
	"github.com/tedimport/awards/valueparse"
	"github.com/tedimport/awards/xmlutil"
)

// LegacyParser handles the "TED 2.0" dialect family spanning
// R2.0.7/R2.0.8/R2.0.9 (roughly 2008-2023). The three editions share
// one root structure; R2.0.9 differs enough in a handful of places
// (contracting body location, award container, CPV main lookup) that
// detection picks one of two extraction paths rather than three — the
// wire difference between R2.0.7 and R2.0.8 never reaches field layout.
type LegacyParser struct {
	Log *zap.Logger
}

func (p *LegacyParser) warn(msg string, fields ...zap.Field) {
	if p.Log != nil {
		p.Log.Warn(msg, fields...)
	}
}

// Parse implements Parser.
func (p *LegacyParser) Parse(path string) (*schema.Notice, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, &Malformed{Path: path, Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &Malformed{Path: path, Err: fmt.Errorf("empty document")}
	}

	isR209 := isLegacyR209(root)

	document := p.extractDocument(root, path)
	if document == nil {
		return nil, nil
	}

	buyer, contactFields := p.extractContractingBody(root, isR209)
	if buyer == nil {
		return nil, nil
	}
	applyContactFields(document, contactFields)
	document.BuyerAuthorityType = p.authorityTypeEntry(root, isR209)
	document.BuyerMainActivityCode = xmlutil.Ptr(p.mainActivityCode(root, isR209))

	contract := p.extractContract(root, isR209)
	if contract == nil {
		return nil, nil
	}

	var awards []schema.Award
	if isR209 {
		awards = p.extractAwardsR209(root)
	} else {
		awards = p.extractAwardsR207(root)
	}
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

// isLegacyR209 tells the R2.0.9 structural layout apart from
// R2.0.7/R2.0.8: R2.0.9 nests the whole notice body under an F03_2014
// element, the older pair exposes CA_CE_CONCESSIONAIRE_PROFILE and
// AWARD_OF_CONTRACT at the top level.
func isLegacyR209(root *etree.Element) bool {
	return root.FindElement("//F03_2014") != nil
}

type contactFields struct {
	contactPoint string
	phone        string
	email        string
	urlGeneral   string
	urlBuyer     string
}

func applyContactFields(d *schema.Document, c contactFields) {
	d.ContactPoint = xmlutil.Ptr(c.contactPoint)
	d.Phone = xmlutil.Ptr(c.phone)
	d.Email = xmlutil.Ptr(c.email)
	d.URLGeneral = xmlutil.Ptr(c.urlGeneral)
	d.BuyerURL = xmlutil.Ptr(c.urlBuyer)
}

func (p *LegacyParser) extractDocument(root *etree.Element, path string) *schema.Document {
	docID, _ := xmlutil.Attr(root, "DOC_ID")
	if docID == "" {
		docID = filenameStem(path)
	}

	edition, hasEdition := xmlutil.Attr(root, "EDITION")
	if !hasEdition {
		return nil
	}

	pubText := xmlutil.FindText(root, "//DATE_PUB")
	pubDate, ok := valueparse.ParseDateYYYYMMDD(pubText)
	if !ok {
		return nil
	}

	var dispatchDate *time.Time
	if dispatchText := xmlutil.FindText(root, "//DS_DATE_DISPATCH"); dispatchText != "" {
		if d, ok := valueparse.ParseDateYYYYMMDD(dispatchText); ok {
			dispatchDate = dateToTimePtr(d)
		}
	}

	sourceCountry, _ := xmlutil.FindAttr(root, "//ISO_COUNTRY", "VALUE")

	return &schema.Document{
		DocID:              docID,
		Edition:            xmlutil.Ptr(edition),
		ReceptionID:        xmlutil.Ptr(xmlutil.FindText(root, "//RECEPTION_ID")),
		OfficialJournalRef: xmlutil.Ptr(xmlutil.FindText(root, "//NO_DOC_OJS")),
		PublicationDate:    dateToTimePtr(pubDate),
		DispatchDate:       dispatchDate,
		SourceCountry:      xmlutil.Ptr(strings.ToUpper(sourceCountry)),
	}
}

func dateToTimePtr(d types.Date) *time.Time {
	t := d.Time
	return &t
}

func (p *LegacyParser) extractContractingBody(root *etree.Element, isR209 bool) (*schema.Organization, contactFields) {
	if isR209 {
		return p.extractContractingBodyR209(root)
	}
	return p.extractContractingBodyR207(root)
}

func (p *LegacyParser) extractContractingBodyR207(root *etree.Element) (*schema.Organization, contactFields) {
	ca := root.FindElement("//CA_CE_CONCESSIONAIRE_PROFILE")
	if ca == nil {
		return nil, contactFields{}
	}

	officialName := organisationName(ca)
	countryCode, _ := xmlutil.FindAttr(ca, "COUNTRY", "VALUE")

	org := &schema.Organization{
		OfficialName: officialName,
		Address:      xmlutil.Ptr(xmlutil.FindText(ca, "ADDRESS")),
		Town:         xmlutil.Ptr(xmlutil.FindText(ca, "TOWN")),
		PostalCode:   xmlutil.Ptr(xmlutil.FindText(ca, "POSTAL_CODE")),
		CountryCode:  xmlutil.Ptr(strings.ToUpper(countryCode)),
	}

	fields := contactFields{
		phone:      xmlutil.FindText(ca, "PHONE"),
		email:      xmlutil.FindText(ca, "E_MAIL"),
		urlGeneral: xmlutil.FindText(root, "//URL_GENERAL"),
		urlBuyer:   xmlutil.FindText(root, "//URL_BUYER"),
	}
	return org, fields
}

func (p *LegacyParser) extractContractingBodyR209(root *etree.Element) (*schema.Organization, contactFields) {
	ca := root.FindElement("//F03_2014//CONTRACTING_BODY")
	if ca == nil {
		return nil, contactFields{}
	}

	officialName := xmlutil.FindText(ca, "OFFICIALNAME")
	countryCode, _ := xmlutil.FindAttr(ca, "COUNTRY", "VALUE")
	nutsCode, _ := xmlutil.FindAttr(ca, "//ADDRESS_CONTRACTING_BODY//NUTS", "CODE")

	org := &schema.Organization{
		OfficialName: officialName,
		Address:      xmlutil.Ptr(xmlutil.FindText(ca, "ADDRESS")),
		Town:         xmlutil.Ptr(xmlutil.FindText(ca, "TOWN")),
		PostalCode:   xmlutil.Ptr(xmlutil.FindText(ca, "POSTAL_CODE")),
		CountryCode:  xmlutil.Ptr(strings.ToUpper(countryCode)),
		NUTSCode:     xmlutil.Ptr(nutsCode),
	}

	fields := contactFields{
		contactPoint: xmlutil.FindText(ca, "CONTACT_POINT"),
		phone:        xmlutil.FindText(ca, "PHONE"),
		email:        xmlutil.FindText(ca, "E_MAIL"),
		urlGeneral:   xmlutil.FindText(ca, "URL_GENERAL"),
		urlBuyer:     xmlutil.FindText(ca, "URL_BUYER"),
	}
	return org, fields
}

// authorityTypeEntry resolves the document's buyer authority type
// independent of the contracting-body extraction, since code
// normalization lives in package codes rather than in the dialect
// parser itself.
func (p *LegacyParser) authorityTypeEntry(root *etree.Element, isR209 bool) *codes.Entry {
	var raw string
	if isR209 {
		raw, _ = xmlutil.FindAttr(root, "//F03_2014//CONTRACTING_BODY//CA_TYPE", "VALUE")
	} else {
		raw, _ = xmlutil.FindAttr(root, "//AA_AUTHORITY_TYPE", "CODE")
	}
	return codes.NormalizeAuthorityType(p.Log, raw)
}

func (p *LegacyParser) mainActivityCode(root *etree.Element, isR209 bool) string {
	if isR209 {
		v, _ := xmlutil.FindAttr(root, "//F03_2014//CONTRACTING_BODY//CA_ACTIVITY", "VALUE")
		return v
	}
	v, _ := xmlutil.FindAttr(root, "//MA_MAIN_ACTIVITIES", "CODE")
	return v
}

func (p *LegacyParser) extractContract(root *etree.Element, isR209 bool) *schema.Contract {
	if isR209 {
		return p.extractContractR209(root)
	}
	return p.extractContractR207(root)
}

func cpvDescriptionMap(root *etree.Element) map[string]string {
	m := map[string]string{}
	for _, el := range root.FindElements("//ORIGINAL_CPV") {
		code, ok := xmlutil.Attr(el, "CODE")
		text := xmlutil.Text(el)
		if ok && code != "" && text != "" {
			m[code] = text
		}
	}
	return m
}

func (p *LegacyParser) extractContractR207(root *etree.Element) *schema.Contract {
	title := xmlutil.FindText(root, "//TITLE_CONTRACT")
	description := xmlutil.FindText(root, "//SHORT_CONTRACT_DESCRIPTION")

	mainCode, _ := xmlutil.FindAttr(root, "//CPV_MAIN//CPV_CODE", "CODE")
	additional := root.FindElements("//CPV_ADDITIONAL//CPV_CODE")

	natureCode, _ := xmlutil.FindAttr(root, "//NC_CONTRACT_NATURE", "CODE")
	procedureEl := root.FindElement("//PR_PROC")

	nutsCode, _ := xmlutil.FindAttr(root, "//LOCATION_NUTS//NUTS", "CODE")

	descMap := cpvDescriptionMap(root)
	var cpvCodes []schema.CPVCode
	seen := map[string]bool{}
	if mainCode != "" && !seen[mainCode] {
		seen[mainCode] = true
		cpvCodes = append(cpvCodes, cpvCodeEntry(mainCode, descMap))
	}
	for _, el := range additional {
		code, ok := xmlutil.Attr(el, "CODE")
		if ok && code != "" && !seen[code] {
			seen[code] = true
			cpvCodes = append(cpvCodes, cpvCodeEntry(code, descMap))
		}
	}

	procedureCode, _ := xmlutil.Attr(procedureEl, "CODE")
	procedureDesc := xmlutil.Text(procedureEl)
	procedureType, accelerated := codes.NormalizeProcedureType(p.Log, procedureCode, procedureDesc)

	return &schema.Contract{
		Title:              title,
		ShortDescription:   xmlutil.Ptr(description),
		MainCPVCode:        xmlutil.Ptr(mainCode),
		CPVCodes:           cpvCodes,
		NUTSCode:           xmlutil.Ptr(nutsCode),
		ContractNatureCode: codes.NormalizeContractNature(p.Log, natureCode),
		ProcedureType:      procedureType,
		Accelerated:        accelerated,
	}
}

func (p *LegacyParser) extractContractR209(root *etree.Element) *schema.Contract {
	object := root.FindElement("//F03_2014//OBJECT_CONTRACT")
	if object == nil {
		return nil
	}

	title := xmlutil.FindText(object, "TITLE")
	description := xmlutil.FindText(object, "SHORT_DESCR")
	mainCode, _ := xmlutil.FindAttr(object, "CPV_MAIN//CPV_CODE", "CODE")
	typeContractEl := object.FindElement("TYPE_CONTRACT")

	procedureEl := root.FindElement("//PR_PROC")
	nutsCode, _ := xmlutil.FindAttr(object, "OBJECT_DESCR//NUTS", "CODE")

	descMap := cpvDescriptionMap(root)
	var cpvCodes []schema.CPVCode
	if mainCode != "" {
		cpvCodes = append(cpvCodes, cpvCodeEntry(mainCode, descMap))
	}

	procedureCode, _ := xmlutil.Attr(procedureEl, "CODE")
	procedureDesc := xmlutil.Text(procedureEl)
	procedureType, accelerated := codes.NormalizeProcedureType(p.Log, procedureCode, procedureDesc)

	natureCode := ""
	if typeContractEl != nil {
		natureCode, _ = xmlutil.Attr(typeContractEl, "CTYPE")
	}

	return &schema.Contract{
		Title:              title,
		ShortDescription:   xmlutil.Ptr(description),
		MainCPVCode:        xmlutil.Ptr(mainCode),
		CPVCodes:           cpvCodes,
		NUTSCode:           xmlutil.Ptr(nutsCode),
		ContractNatureCode: codes.NormalizeContractNature(p.Log, natureCode),
		ProcedureType:      procedureType,
		Accelerated:        accelerated,
	}
}

func cpvCodeEntry(code string, descMap map[string]string) schema.CPVCode {
	entry := schema.CPVCode{Code: code}
	if desc, ok := descMap[code]; ok {
		entry.Description = xmlutil.Ptr(desc)
	}
	return entry
}

func (p *LegacyParser) extractAwardsR207(root *etree.Element) []schema.Award {
	var awards []schema.Award
	for _, awardEl := range root.FindElements("//AWARD_OF_CONTRACT") {
		if awardEl.FindElement("ECONOMIC_OPERATOR_NAME_ADDRESS") == nil &&
			awardEl.FindElement("CONTRACT_VALUE_INFORMATION") == nil &&
			awardEl.FindElement("CONTRACT_NUMBER") == nil &&
			awardEl.FindElement("CONTRACT_AWARD_DATE") == nil {
			continue
		}

		valueEl := awardEl.FindElement("CONTRACT_VALUE_INFORMATION//COSTS_RANGE_AND_CURRENCY_WITH_VAT_RATE//VALUE_COST")
		currencyEl := awardEl.FindElement("CONTRACT_VALUE_INFORMATION//COSTS_RANGE_AND_CURRENCY_WITH_VAT_RATE")

		awardedValue, currency := extractValueAmount(p, valueEl, currencyEl, "CURRENCY")

		offersText := xmlutil.FindText(awardEl, "OFFERS_RECEIVED_NUMBER")
		tendersReceived := parseOptionalInt(p, offersText, "tenders_received")

		award := schema.Award{
			ContractNumber: xmlutil.Ptr(xmlutil.FindText(awardEl, "CONTRACT_NUMBER")),
			AwardTitle:     xmlutil.Ptr(xmlutil.FindText(awardEl, "CONTRACT_TITLE")),
			AwardedValue:   awardedValue,
			AwardedValueCurrency: xmlutil.Ptr(currency),
			TendersReceived:      tendersReceived,
			Contractors:          p.extractContractorsR207(awardEl),
		}
		awards = append(awards, award)
	}
	return awards
}

func (p *LegacyParser) extractAwardsR209(root *etree.Element) []schema.Award {
	var awards []schema.Award
	for _, awardEl := range root.FindElements("//F03_2014//AWARD_CONTRACT") {
		decision := awardEl.FindElement("AWARDED_CONTRACT")
		if decision == nil {
			continue
		}

		valueEl := decision.FindElement("VAL_TOTAL")
		offersEl := decision.FindElement("NB_TENDERS_RECEIVED")

		awardedValue, currency := extractValueAmount(p, valueEl, valueEl, "CURRENCY")
		tendersReceived := parseOptionalInt(p, xmlutil.Text(offersEl), "tenders_received")

		award := schema.Award{
			ContractNumber:       xmlutil.Ptr(xmlutil.FindText(awardEl, "CONTRACT_NO")),
			AwardTitle:           xmlutil.Ptr(xmlutil.FindText(awardEl, "TITLE")),
			AwardedValue:         awardedValue,
			AwardedValueCurrency: xmlutil.Ptr(currency),
			TendersReceived:      tendersReceived,
			Contractors:          p.extractContractorsR209(decision),
		}
		awards = append(awards, award)
	}
	return awards
}

func (p *LegacyParser) extractContractorsR207(awardEl *etree.Element) []schema.Organization {
	var contractors []schema.Organization
	for _, contractorEl := range awardEl.FindElements("//ECONOMIC_OPERATOR_NAME_ADDRESS") {
		contactData := contractorEl.FindElement("CONTACT_DATA_WITHOUT_RESPONSIBLE_NAME")
		if contactData == nil {
			continue
		}

		officialName := organisationName(contactData)
		countryCode, _ := xmlutil.FindAttr(contactData, "COUNTRY", "VALUE")

		contractors = append(contractors, schema.Organization{
			OfficialName: officialName,
			Address:      xmlutil.Ptr(xmlutil.FindText(contactData, "ADDRESS")),
			Town:         xmlutil.Ptr(xmlutil.FindText(contactData, "TOWN")),
			PostalCode:   xmlutil.Ptr(xmlutil.FindText(contactData, "POSTAL_CODE")),
			CountryCode:  xmlutil.Ptr(strings.ToUpper(countryCode)),
		})
	}
	return contractors
}

func (p *LegacyParser) extractContractorsR209(decision *etree.Element) []schema.Organization {
	var contractors []schema.Organization
	for _, contractorEl := range decision.FindElements("//CONTRACTOR") {
		nutsCode, _ := xmlutil.FindAttr(contractorEl, "//NUTS", "CODE")
		countryCode, _ := xmlutil.FindAttr(contractorEl, "COUNTRY", "VALUE")

		contractors = append(contractors, schema.Organization{
			OfficialName: xmlutil.FindText(contractorEl, "OFFICIALNAME"),
			Address:      xmlutil.Ptr(xmlutil.FindText(contractorEl, "ADDRESS")),
			Town:         xmlutil.Ptr(xmlutil.FindText(contractorEl, "TOWN")),
			PostalCode:   xmlutil.Ptr(xmlutil.FindText(contractorEl, "POSTAL_CODE")),
			CountryCode:  xmlutil.Ptr(strings.ToUpper(countryCode)),
			NUTSCode:     xmlutil.Ptr(nutsCode),
		})
	}
	return contractors
}

// organisationName mirrors the teacher's fallback: prefer OFFICIALNAME,
// fall back to the organisation element's own text content.
func organisationName(container *etree.Element) string {
	org := container.FindElement(".//ORGANISATION")
	if org == nil {
		return ""
	}
	if name := xmlutil.FindText(org, "OFFICIALNAME"); name != "" {
		return name
	}
	return xmlutil.Text(org)
}

func extractValueAmount(p *LegacyParser, valueEl, currencyEl *etree.Element, currencyAttr string) (*decimal.Decimal, string) {
	if valueEl == nil {
		return nil, ""
	}
	text := xmlutil.Text(valueEl)
	if text == "" {
		return nil, ""
	}
	amount, ok := valueparse.ParseMonetary(text)
	if !ok {
		p.warn("unparseable monetary value", zap.String("text", text))
		return nil, ""
	}
	currency, _ := xmlutil.Attr(currencyEl, currencyAttr)
	return &amount, currency
}

func parseOptionalInt(p *LegacyParser, text, field string) *int {
	if text == "" {
		return nil
	}
	n, ok := valueparse.ParseOptionalInt(text)
	if !ok {
		p.warn("unparseable integer value", zap.String("field", field), zap.String("text", text))
		return nil
	}
	return &n
}

func filenameStem(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
		base = base[:idx]
	}
	return strings.ReplaceAll(base, "_", "-")
}
