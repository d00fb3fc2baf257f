package dump

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/daimatz/jclass/pkg/classfile"
	"github.com/daimatz/jclass/pkg/classfile/classtest"
	"github.com/daimatz/jclass/pkg/resolve"
)

func greeter(t *testing.T) *resolve.Class {
	t.Helper()
	b := classtest.New()
	b.ThisClass = b.ClassNamed("com/example/Greeter")
	b.SuperClass = b.ClassNamed("java/lang/Object")
	b.Interface(b.ClassNamed("java/lang/Runnable"))
	b.Field(classfile.AccPrivate|classfile.AccFinal, b.Utf8("names"), b.Utf8("[Ljava/lang/String;"))
	b.Method(classfile.AccPublic, b.Utf8("<init>"), b.Utf8("()V"),
		classtest.Attribute{NameIndex: b.Utf8("Code"), Data: []byte{0xB1}})
	b.Method(classfile.AccPublic|classfile.AccStatic|classfile.AccVarargs, b.Utf8("greet"), b.Utf8("(I[Ljava/lang/String;)[[I"))
	b.Attribute(b.Utf8("SourceFile"), []byte{0, 1})

	c, err := resolve.Decode(b.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return c
}

func TestText(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Text(&buf, greeter(t), nil); err != nil {
			t.Fatal(err)
		}
		want := `class name: com/example/Greeter
super class: java/lang/Object
interfaces:
  java/lang/Runnable
fields:
  java/lang/String[] names
methods:
  void <init>()
  int[][] greet(int, java/lang/String[])
attributes:
  SourceFile
`
		if got := buf.String(); got != want {
			t.Errorf("got:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("minimal", func(t *testing.T) {
		c, err := resolve.Decode(classtest.Minimal())
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := Text(&buf, c, nil); err != nil {
			t.Fatal(err)
		}
		want := "class name: Foo\nsuper class: (none)\ninterfaces:\nfields:\nmethods:\nattributes:\n"
		if got := buf.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("styled", func(t *testing.T) {
		var buf bytes.Buffer
		r := lipgloss.NewRenderer(&buf)
		r.SetColorProfile(termenv.ANSI256)
		if err := Text(&buf, greeter(t), NewStyles(r)); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "\x1b[") {
			t.Error("expected ANSI escapes in styled output")
		}
		if !strings.Contains(out, "com/example/Greeter") || !strings.Contains(out, "greet(") {
			t.Errorf("styled output lost content: %q", out)
		}
	})
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextWriteError(t *testing.T) {
	if err := Text(failWriter{}, greeter(t), nil); err == nil || err.Error() != "disk full" {
		t.Errorf("got %v, want disk full", err)
	}
}

func TestNewView(t *testing.T) {
	v := NewView(greeter(t))

	if v.Name != "com/example/Greeter" || v.Version != "52.0" || v.SuperClass != "java/lang/Object" {
		t.Errorf("header: got %+v", v)
	}
	if want := []string{"public", "super"}; !reflect.DeepEqual(v.Access, want) {
		t.Errorf("class access: got %v, want %v", v.Access, want)
	}
	if want := []string{"private", "final"}; !reflect.DeepEqual(v.Fields[0].Access, want) {
		t.Errorf("field access: got %v, want %v", v.Fields[0].Access, want)
	}
	greet := v.Methods[1]
	if want := []string{"public", "static", "varargs"}; !reflect.DeepEqual(greet.Access, want) {
		t.Errorf("method access: got %v, want %v", greet.Access, want)
	}
	if greet.Type != "int[][] greet(int, java/lang/String[])" {
		t.Errorf("method type: got %q", greet.Type)
	}
	if want := []AttributeView{{Name: "Code", Length: 1}}; !reflect.DeepEqual(v.Methods[0].Attributes, want) {
		t.Errorf("method attributes: got %+v", v.Methods[0].Attributes)
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		name string
		fn   func(uint16) []string
		in   uint16
		want []string
	}{
		{"no flags", ClassFlags, 0, []string{}},
		{"interface", ClassFlags, 0x0601, []string{"public", "interface", "abstract"}},
		{"volatile field", FieldFlags, 0x0048, []string{"static", "volatile"}},
		{"bridge method", MethodFlags, 0x1041, []string{"public", "bridge", "synthetic"}},
		{"synchronized method", MethodFlags, 0x0020, []string{"synchronized"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	c := greeter(t)
	var buf bytes.Buffer
	if err := Write(&buf, "json", []*resolve.Class{c, c}, nil); err != nil {
		t.Fatal(err)
	}
	var got []View
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d views, want 2", len(got))
	}
	checkView(t, got[0], NewView(c))
	if !strings.Contains(buf.String(), `"super_class": "java/lang/Object"`) {
		t.Errorf("missing super_class key in %s", buf.String())
	}
}

func checkView(t *testing.T, got, want View) {
	t.Helper()
	if got.Name != want.Name || got.Version != want.Version || got.SuperClass != want.SuperClass {
		t.Errorf("header: got %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(got.Access, want.Access) || !reflect.DeepEqual(got.Interfaces, want.Interfaces) {
		t.Errorf("access/interfaces: got %v %v, want %v %v", got.Access, got.Interfaces, want.Access, want.Interfaces)
	}
	if len(got.Methods) != len(want.Methods) || len(got.Fields) != len(want.Fields) {
		t.Fatalf("members: got %d fields %d methods, want %d and %d",
			len(got.Fields), len(got.Methods), len(want.Fields), len(want.Methods))
	}
	for i := range want.Methods {
		if got.Methods[i].Type != want.Methods[i].Type || got.Methods[i].Descriptor != want.Methods[i].Descriptor {
			t.Errorf("method %d: got %+v, want %+v", i, got.Methods[i], want.Methods[i])
		}
	}
	if !reflect.DeepEqual(got.Attributes, want.Attributes) {
		t.Errorf("attributes: got %+v, want %+v", got.Attributes, want.Attributes)
	}
}

func TestYAML(t *testing.T) {
	a := greeter(t)
	b, err := resolve.Decode(classtest.Minimal())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, "yaml", []*resolve.Class{a, b}, nil); err != nil {
		t.Fatal(err)
	}

	dec := yaml.NewDecoder(&buf)
	var got []View
	for {
		var v View
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
	}
	if len(got) != 2 {
		t.Fatalf("got %d documents, want 2", len(got))
	}
	checkView(t, got[0], NewView(a))
	if got[1].Name != "Foo" || got[1].SuperClass != "" {
		t.Errorf("second document: got %+v", got[1])
	}
}

func TestWriteText(t *testing.T) {
	c, err := resolve.Decode(classtest.Minimal())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, "text", []*resolve.Class{c, c}, nil); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "class name: Foo"); n != 2 {
		t.Errorf("got %d listings, want 2", n)
	}
	if !strings.Contains(buf.String(), "attributes:\n\nclass name:") {
		t.Errorf("listings not separated by a blank line: %q", buf.String())
	}

	if err := Write(&buf, "xml", nil, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
