package dialect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
)

func writeFixture(t *testing.T, name, xml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(xml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func mustParse(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("ReadFromString: %v", err)
	}
	return doc.Root()
}

const r207Fixture = `<TED_EXPORT CODE="7" DOC_ID="123456-2021" EDITION="2021103">
  <FORM_SECTION>
    <CONTRACT_AWARD LG="EN" CATEGORY="ORIGINAL" TYPE="AVIS_MARCHE">
      <LEGAL_BASIS VALUE="DIRECTIVE_2014_24"/>
      <CONTRACTING_AUTHORITY_INFORMATION>
        <ADDRESS_CONTRACTING_AUTHORITY>
          <CA_CE_CONCESSIONAIRE_PROFILE>
            <ORGANISATION>
              <OFFICIALNAME>City of Example</OFFICIALNAME>
            </ORGANISATION>
            <ADDRESS>1 Example Square</ADDRESS>
            <TOWN>Exampletown</TOWN>
            <POSTAL_CODE>12345</POSTAL_CODE>
            <COUNTRY VALUE="FR"/>
          </CA_CE_CONCESSIONAIRE_PROFILE>
        </ADDRESS_CONTRACTING_AUTHORITY>
        <CA_TYPE>
          <AA_AUTHORITY_TYPE CODE="3"/>
        </CA_TYPE>
        <CA_ACTIVITY>
          <MA_MAIN_ACTIVITIES CODE="1"/>
        </CA_ACTIVITY>
      </CONTRACTING_AUTHORITY_INFORMATION>
      <URL_GENERAL>https://example.fr</URL_GENERAL>
      <URL_BUYER>https://example.fr/buyer</URL_BUYER>
      <OBJECT_CONTRACT_INFORMATION_AWARD_NOTICE>
        <TITLE_CONTRACT>Road resurfacing works</TITLE_CONTRACT>
        <SHORT_CONTRACT_DESCRIPTION>Resurfacing of the ring road.</SHORT_CONTRACT_DESCRIPTION>
        <CPV_MAIN>
          <CPV_CODE CODE="45233140"/>
        </CPV_MAIN>
        <NC_CONTRACT_NATURE CODE="1"/>
        <LOCATION_NUTS>
          <NUTS CODE="FR101"/>
        </LOCATION_NUTS>
      </OBJECT_CONTRACT_INFORMATION_AWARD_NOTICE>
      <PROCEDURE_DEFINITION_AWARD_NOTICE>
        <PR_PROC CODE="1">Open procedure</PR_PROC>
      </PROCEDURE_DEFINITION_AWARD_NOTICE>
      <AWARD_OF_CONTRACT>
        <CONTRACT_NUMBER>2021/45</CONTRACT_NUMBER>
        <CONTRACT_TITLE>Lot 1</CONTRACT_TITLE>
        <CONTRACT_VALUE_INFORMATION>
          <COSTS_RANGE_AND_CURRENCY_WITH_VAT_RATE CURRENCY="EUR">
            <VALUE_COST>123456.78</VALUE_COST>
          </COSTS_RANGE_AND_CURRENCY_WITH_VAT_RATE>
        </CONTRACT_VALUE_INFORMATION>
        <OFFERS_RECEIVED_NUMBER>4</OFFERS_RECEIVED_NUMBER>
        <ECONOMIC_OPERATOR_NAME_ADDRESS>
          <CONTACT_DATA_WITHOUT_RESPONSIBLE_NAME>
            <ORGANISATION>
              <OFFICIALNAME>Roadworks Ltd</OFFICIALNAME>
            </ORGANISATION>
            <ADDRESS>2 Industrial Way</ADDRESS>
            <TOWN>Worktown</TOWN>
            <POSTAL_CODE>54321</POSTAL_CODE>
            <COUNTRY VALUE="FR"/>
          </CONTACT_DATA_WITHOUT_RESPONSIBLE_NAME>
        </ECONOMIC_OPERATOR_NAME_ADDRESS>
      </AWARD_OF_CONTRACT>
    </CONTRACT_AWARD>
  </FORM_SECTION>
  <CODED_DATA_SECTION>
    <REF_OJS>
      <DATE_PUB>20211020</DATE_PUB>
      <NO_DOC_OJS>2021/S 123-456789</NO_DOC_OJS>
    </REF_OJS>
    <NOTICE_DATA>
      <RECEPTION_ID>20211020001</RECEPTION_ID>
      <DS_DATE_DISPATCH>20211019</DS_DATE_DISPATCH>
      <ISO_COUNTRY VALUE="fr"/>
    </NOTICE_DATA>
  </CODED_DATA_SECTION>
</TED_EXPORT>
`

func TestLegacyParser_R207(t *testing.T) {
	path := writeFixture(t, "123456_2021.xml", r207Fixture)
	p := &LegacyParser{}

	notice, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if notice == nil {
		t.Fatal("expected a notice, got nil")
	}

	if notice.Document.DocID != "123456-2021" {
		t.Errorf("DocID = %q", notice.Document.DocID)
	}
	if notice.Document.SourceCountry == nil || *notice.Document.SourceCountry != "FR" {
		t.Errorf("SourceCountry = %v", notice.Document.SourceCountry)
	}
	if notice.Buyer.OfficialName != "City of Example" {
		t.Errorf("Buyer.OfficialName = %q", notice.Buyer.OfficialName)
	}
	if notice.Buyer.CountryCode == nil || *notice.Buyer.CountryCode != "FR" {
		t.Errorf("Buyer.CountryCode = %v", notice.Buyer.CountryCode)
	}
	if notice.Document.BuyerAuthorityType == nil {
		t.Error("expected BuyerAuthorityType to be resolved")
	}
	if notice.Contract.Title != "Road resurfacing works" {
		t.Errorf("Contract.Title = %q", notice.Contract.Title)
	}
	if notice.Contract.ProcedureType == nil || notice.Contract.ProcedureType.Code != "open" {
		t.Errorf("ProcedureType = %v", notice.Contract.ProcedureType)
	}
	if len(notice.Contract.CPVCodes) != 1 || notice.Contract.CPVCodes[0].Code != "45233140" {
		t.Errorf("CPVCodes = %+v", notice.Contract.CPVCodes)
	}
	if len(notice.Awards) != 1 {
		t.Fatalf("expected one award, got %d", len(notice.Awards))
	}
	award := notice.Awards[0]
	if award.ContractNumber == nil || *award.ContractNumber != "2021/45" {
		t.Errorf("ContractNumber = %v", award.ContractNumber)
	}
	if award.AwardedValue == nil || award.AwardedValue.String() != "123456.78" {
		t.Errorf("AwardedValue = %v", award.AwardedValue)
	}
	if award.AwardedValueCurrency == nil || *award.AwardedValueCurrency != "EUR" {
		t.Errorf("AwardedValueCurrency = %v", award.AwardedValueCurrency)
	}
	if award.TendersReceived == nil || *award.TendersReceived != 4 {
		t.Errorf("TendersReceived = %v", award.TendersReceived)
	}
	if len(award.Contractors) != 1 || award.Contractors[0].OfficialName != "Roadworks Ltd" {
		t.Errorf("Contractors = %+v", award.Contractors)
	}
}

const r209Fixture = `<TED_EXPORT CODE="7" DOC_ID="654321-2023" EDITION="2023200">
  <FORM_SECTION>
    <F03_2014 LG="EN" CATEGORY="ORIGINAL" FORM="F03">
      <CONTRACTING_BODY>
        <OFFICIALNAME>Ministry of Roads</OFFICIALNAME>
        <ADDRESS>10 Ministry Street</ADDRESS>
        <TOWN>Capital City</TOWN>
        <POSTAL_CODE>00100</POSTAL_CODE>
        <COUNTRY VALUE="DE"/>
        <CONTACT_POINT>Procurement Office</CONTACT_POINT>
        <PHONE>+49 1234</PHONE>
        <E_MAIL>procurement@example.de</E_MAIL>
        <URL_GENERAL>https://example.de</URL_GENERAL>
        <URL_BUYER>https://example.de/buyer</URL_BUYER>
        <CA_TYPE VALUE="MINISTRY"/>
        <CA_ACTIVITY VALUE="GENERAL_PUBLIC_SERVICES"/>
        <ADDRESS_CONTRACTING_BODY>
          <NUTS CODE="DE300"/>
        </ADDRESS_CONTRACTING_BODY>
      </CONTRACTING_BODY>
      <OBJECT_CONTRACT>
        <TITLE>Bridge maintenance framework</TITLE>
        <SHORT_DESCR>Framework agreement for bridge maintenance.</SHORT_DESCR>
        <CPV_MAIN>
          <CPV_CODE CODE="45221000"/>
        </CPV_MAIN>
        <TYPE_CONTRACT CTYPE="WORKS"/>
        <OBJECT_DESCR>
          <NUTS CODE="DE300"/>
        </OBJECT_DESCR>
      </OBJECT_CONTRACT>
      <PROCEDURE_DEFINITION_AWARD_NOTICE>
        <PR_PROC CODE="OPEN">Open</PR_PROC>
      </PROCEDURE_DEFINITION_AWARD_NOTICE>
      <AWARD_CONTRACT>
        <CONTRACT_NO>2023-77</CONTRACT_NO>
        <TITLE>Bridge lot A</TITLE>
        <AWARDED_CONTRACT>
          <VAL_TOTAL CURRENCY="EUR">987654.00</VAL_TOTAL>
          <NB_TENDERS_RECEIVED>2</NB_TENDERS_RECEIVED>
          <CONTRACTOR>
            <OFFICIALNAME>Bridgeworks GmbH</OFFICIALNAME>
            <ADDRESS>3 Bridge Lane</ADDRESS>
            <TOWN>Brückenstadt</TOWN>
            <POSTAL_CODE>00200</POSTAL_CODE>
            <COUNTRY VALUE="DE"/>
            <NUTS CODE="DE300"/>
          </CONTRACTOR>
        </AWARDED_CONTRACT>
      </AWARD_CONTRACT>
    </F03_2014>
  </FORM_SECTION>
  <CODED_DATA_SECTION>
    <REF_OJS>
      <DATE_PUB>20230719</DATE_PUB>
      <NO_DOC_OJS>2023/S 138-654321</NO_DOC_OJS>
    </REF_OJS>
    <NOTICE_DATA>
      <RECEPTION_ID>20230719001</RECEPTION_ID>
      <DS_DATE_DISPATCH>20230718</DS_DATE_DISPATCH>
      <ISO_COUNTRY VALUE="de"/>
    </NOTICE_DATA>
  </CODED_DATA_SECTION>
</TED_EXPORT>
`

func TestLegacyParser_R209(t *testing.T) {
	path := writeFixture(t, "654321_2023.xml", r209Fixture)
	p := &LegacyParser{}

	notice, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if notice == nil {
		t.Fatal("expected a notice, got nil")
	}

	if notice.Buyer.OfficialName != "Ministry of Roads" {
		t.Errorf("Buyer.OfficialName = %q", notice.Buyer.OfficialName)
	}
	if notice.Buyer.NUTSCode == nil || *notice.Buyer.NUTSCode != "DE300" {
		t.Errorf("Buyer.NUTSCode = %v", notice.Buyer.NUTSCode)
	}
	if notice.Document.ContactPoint == nil || *notice.Document.ContactPoint != "Procurement Office" {
		t.Errorf("ContactPoint = %v", notice.Document.ContactPoint)
	}
	if notice.Contract.Title != "Bridge maintenance framework" {
		t.Errorf("Contract.Title = %q", notice.Contract.Title)
	}
	if notice.Contract.ContractNatureCode != "works" {
		t.Errorf("ContractNatureCode = %q", notice.Contract.ContractNatureCode)
	}
	if len(notice.Awards) != 1 {
		t.Fatalf("expected one award, got %d", len(notice.Awards))
	}
	award := notice.Awards[0]
	if award.ContractNumber == nil || *award.ContractNumber != "2023-77" {
		t.Errorf("ContractNumber = %v", award.ContractNumber)
	}
	if award.AwardedValue == nil || award.AwardedValue.String() != "987654.00" {
		t.Errorf("AwardedValue = %v", award.AwardedValue)
	}
	if award.TendersReceived == nil || *award.TendersReceived != 2 {
		t.Errorf("TendersReceived = %v", award.TendersReceived)
	}
	if len(award.Contractors) != 1 || award.Contractors[0].OfficialName != "Bridgeworks GmbH" {
		t.Errorf("Contractors = %+v", award.Contractors)
	}
}

func TestLegacyParser_MissingEditionIsSkipped(t *testing.T) {
	const xml = `<TED_EXPORT CODE="7" DOC_ID="1-2021"><FORM_SECTION/></TED_EXPORT>`
	path := writeFixture(t, "1_2021.xml", xml)
	p := &LegacyParser{}

	notice, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if notice != nil {
		t.Errorf("expected nil notice for missing EDITION, got %+v", notice)
	}
}

func TestLegacyParser_NoAwardsIsSkipped(t *testing.T) {
	const xml = `<TED_EXPORT CODE="7" DOC_ID="1-2021" EDITION="2021001">
  <CODED_DATA_SECTION>
    <REF_OJS><DATE_PUB>20210101</DATE_PUB></REF_OJS>
  </CODED_DATA_SECTION>
  <FORM_SECTION>
    <CONTRACT_AWARD>
      <CONTRACTING_AUTHORITY_INFORMATION>
        <ADDRESS_CONTRACTING_AUTHORITY>
          <CA_CE_CONCESSIONAIRE_PROFILE>
            <ORGANISATION><OFFICIALNAME>Buyer</OFFICIALNAME></ORGANISATION>
            <COUNTRY VALUE="FR"/>
          </CA_CE_CONCESSIONAIRE_PROFILE>
        </ADDRESS_CONTRACTING_AUTHORITY>
      </CONTRACTING_AUTHORITY_INFORMATION>
      <OBJECT_CONTRACT_INFORMATION_AWARD_NOTICE>
        <TITLE_CONTRACT>Nothing awarded yet</TITLE_CONTRACT>
      </OBJECT_CONTRACT_INFORMATION_AWARD_NOTICE>
    </CONTRACT_AWARD>
  </FORM_SECTION>
</TED_EXPORT>
`
	path := writeFixture(t, "1_2021.xml", xml)
	p := &LegacyParser{}

	notice, err := p.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if notice != nil {
		t.Errorf("expected nil notice when no awards are present, got %+v", notice)
	}
}

func TestLegacyParser_MalformedXML(t *testing.T) {
	path := writeFixture(t, "broken.xml", `<TED_EXPORT CODE="7">`)
	p := &LegacyParser{}

	_, err := p.Parse(path)
	if err == nil {
		t.Fatal("expected an error for malformed XML")
	}
	var malformed *Malformed
	if !errors.As(err, &malformed) {
		t.Errorf("expected *Malformed, got %T: %v", err, err)
	}
}

func TestLegacyParser_MissingFile(t *testing.T) {
	p := &LegacyParser{}
	_, err := p.Parse(filepath.Join(t.TempDir(), "does-not-exist.xml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestIsLegacyR209(t *testing.T) {
	root := mustParse(t, `<TED_EXPORT><FORM_SECTION><F03_2014/></FORM_SECTION></TED_EXPORT>`)
	if !isLegacyR209(root) {
		t.Error("expected R209 detection to find F03_2014")
	}
	root2 := mustParse(t, `<TED_EXPORT><FORM_SECTION><CONTRACT_AWARD/></FORM_SECTION></TED_EXPORT>`)
	if isLegacyR209(root2) {
		t.Error("expected R209 detection to be false without F03_2014")
	}
}

func TestFilenameStem(t *testing.T) {
	cases := map[string]string{
		"/a/b/123456_2021.xml": "123456-2021",
		"654321_2023.xml":      "654321-2023",
		"no_extension":         "no-extension",
	}
	for in, want := range cases {
		if got := filenameStem(in); got != want {
			t.Errorf("filenameStem(%q) = %q, want %q", in, got, want)
		}
	}
}
