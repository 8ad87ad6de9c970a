package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"testing"

	"gorm.io/gorm"
)

const sampleVCF = "BEGIN:VCARD\r\n" +
	"VERSION:3.0\r\n" +
	"FN:Ion Popescu\r\n" +
	"TEL;TYPE=CELL:0721 000 111\r\n" +
	"TEL;TYPE=WORK,PREF:0721 999 999\r\n" +
	"EMAIL;TYPE=INTERNET:ion@example.com\r\n" +
	"ORG:Acme SRL;Vanzari\r\n" +
	"END:VCARD\r\n" +
	"\r\n" +
	"BEGIN:VCARD\n" +
	"FN:Maria\n" +
	" na Ionescu\n" +
	"item1.TEL:0744 222 333\n" +
	"END:VCARD\n" +
	"BEGIN:VCARD\n" +
	"FN:Fara Telefon\n" +
	"EMAIL:x@example.com\n" +
	"END:VCARD\n" +
	"BEGIN:VCARD\n" +
	"TEL:0700\n" +
	"END:VCARD\n"

func TestParseVCF(t *testing.T) {
	res, err := ParseVCF(strings.NewReader(sampleVCF))
	if err != nil {
		t.Fatal(err)
	}
	want := []Contact{
		{Name: "Ion Popescu", Phone: "0721 999 999", Email: "ion@example.com", Organization: "Acme SRL Vanzari"},
		{Name: "Mariana Ionescu", Phone: "0744 222 333"},
	}
	if !reflect.DeepEqual(res.Contacts, want) {
		t.Fatalf("contacts = %+v", res.Contacts)
	}
	if res.Invalid != 2 {
		t.Fatalf("invalid = %d, want 2", res.Invalid)
	}
}

func TestParseVCFPreferredFirst(t *testing.T) {
	in := "BEGIN:VCARD\nFN:A\nTEL;type=pref:1\nTEL:2\nEND:VCARD\n"
	res, err := ParseVCF(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Contacts) != 1 || res.Contacts[0].Phone != "1" {
		t.Fatalf("contacts = %+v", res.Contacts)
	}
}

func TestParseVCFRejectsTextOutsideCards(t *testing.T) {
	if _, err := ParseVCF(strings.NewReader("FN:Stray\nTEL:1\nEND:VCARD\n")); err == nil {
		t.Fatal("stray properties were accepted")
	}
	res, err := ParseVCF(strings.NewReader("\n\n"))
	if err != nil || len(res.Contacts) != 0 || res.Invalid != 0 {
		t.Fatalf("blank input: res = %+v, err = %v", res, err)
	}
}

func TestParseVCFEscapedComponents(t *testing.T) {
	in := "BEGIN:VCARD\nVERSION:3.0\nFN:Ana\\, Maria\nTEL;PREF=1:0722\nORG:Acme\\; Co;Sales\nEND:VCARD\n"
	res, err := ParseVCF(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []Contact{{Name: "Ana, Maria", Phone: "0722", Organization: "Acme; Co Sales"}}
	if !reflect.DeepEqual(res.Contacts, want) {
		t.Fatalf("contacts = %+v", res.Contacts)
	}
}

type fakeRepo struct {
	clients []Client
}

func (f *fakeRepo) List(context.Context, string) ([]Client, error) { return f.clients, nil }
func (f *fakeRepo) FindByID(_ context.Context, id uint) (*Client, error) {
	for i := range f.clients {
		if f.clients[i].ID == id {
			c := f.clients[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) Create(_ context.Context, c *Client) error {
	c.ID = uint(len(f.clients) + 1)
	f.clients = append(f.clients, *c)
	return nil
}
func (f *fakeRepo) CreateMany(ctx context.Context, cs []Client) error {
	for i := range cs {
		if err := f.Create(ctx, &cs[i]); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeRepo) Update(context.Context, *Client) error { return nil }
func (f *fakeRepo) Delete(_ context.Context, id uint) error {
	for i := range f.clients {
		if f.clients[i].ID == id {
			f.clients = append(f.clients[:i], f.clients[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
func (f *fakeRepo) Phones(context.Context) ([]string, error) {
	var out []string
	for _, c := range f.clients {
		out = append(out, c.Phone)
	}
	return out, nil
}
func (f *fakeRepo) Names(_ context.Context, ids []uint) (map[uint]string, error) {
	out := map[uint]string{}
	for _, c := range f.clients {
		for _, id := range ids {
			if c.ID == id {
				out[id] = c.Name
			}
		}
	}
	return out, nil
}

func TestImportContactsSkipsDuplicates(t *testing.T) {
	repo := &fakeRepo{clients: []Client{{ID: 1, Name: "Existing", Phone: "0744 222 333"}}}
	parsed := ParseResult{
		Contacts: []Contact{
			{Name: "Ion", Phone: "0721"},
			{Name: "Maria", Phone: "0744 222 333"},
			{Name: "Ion again", Phone: "0721"},
			{Name: "Spaced", Phone: "0744222333"},
		},
		Invalid: 3,
	}
	res, err := ImportContacts(context.Background(), repo, parsed)
	if err != nil {
		t.Fatal(err)
	}
	if res != (ImportResult{Imported: 2, Duplicates: 2, Invalid: 3}) {
		t.Fatalf("res = %+v", res)
	}
	var names []string
	for _, c := range repo.clients {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	if want := []string{"Existing", "Ion", "Spaced"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("clients = %v", names)
	}
}

func TestImportVCFHandlerRawBody(t *testing.T) {
	repo := &fakeRepo{}
	h := &Handler{Repository: repo}
	req := httptest.NewRequest(http.MethodPost, "/clients/import-vcf", strings.NewReader(sampleVCF))
	req.Header.Set("Content-Type", "text/vcard")
	rec := httptest.NewRecorder()
	h.ImportVCF(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"imported":2`) || !strings.Contains(rec.Body.String(), `"invalid":2`) {
		t.Fatalf("body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ImportVCF(rec, httptest.NewRequest(http.MethodPost, "/clients/import-vcf", strings.NewReader(sampleVCF)))
	if !strings.Contains(rec.Body.String(), `"duplicates":2`) {
		t.Fatalf("second import body = %s", rec.Body.String())
	}
}

func TestClientCRUDHandlers(t *testing.T) {
	repo := &fakeRepo{}
	h := &Handler{Repository: repo}

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{"name":"","email":"nope"}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid create status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"required"`) || !strings.Contains(rec.Body.String(), `"email":"email"`) {
		t.Fatalf("fields = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{"name":" Ion ","phone":"0721"}`)))
	if rec.Code != http.StatusCreated || repo.clients[0].Name != "Ion" {
		t.Fatalf("create status = %d, clients = %+v", rec.Code, repo.clients)
	}
}
