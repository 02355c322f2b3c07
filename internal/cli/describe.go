package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rtikit/internal/datatype"
	"github.com/roach88/rtikit/internal/fom"
)

// DescribeOptions holds flags for the describe command.
type DescribeOptions struct {
	*RootOptions
	Type string // describe one datatype instead of the model
	All  bool   // include the standard MIM datatypes in the listing
}

// DescribeResult summarises a resolved object model.
type DescribeResult struct {
	Modules            []string          `json:"modules"`
	Fingerprint        string            `json:"fingerprint"`
	Total              int               `json:"total"`
	Datatypes          []DatatypeSummary `json:"datatypes"`
	ObjectClasses      []ClassSummary    `json:"object_classes"`
	InteractionClasses []ClassSummary    `json:"interaction_classes"`
}

// DatatypeSummary names a datatype and its class.
type DatatypeSummary struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// ClassSummary lists the members declared directly on a class.
type ClassSummary struct {
	Name    string          `json:"name"`
	Members []MemberSummary `json:"members"`
}

// MemberSummary is an attribute or parameter with its datatype.
type MemberSummary struct {
	Name     string `json:"name"`
	Datatype string `json:"datatype"`
}

// TypeResult describes one datatype in full.
type TypeResult struct {
	Name        string         `json:"name"`
	Class       string         `json:"class"`
	Fingerprint string         `json:"fingerprint"`
	Definition  map[string]any `json:"definition"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "describe [module]...",
		Short: "Describe a resolved object model",
		Long: `Resolve FOM modules and list their datatypes and classes, or show one
datatype with its content fingerprint. Without arguments the modules listed
under fom_modules in the config are described.

Examples:
  rtikit describe restaurant.xml
  rtikit describe restaurant.xml dessert.cue --type Sundae
  rtikit describe restaurant.xml --all --format json`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "describe a single datatype")
	cmd.Flags().BoolVar(&opts.All, "all", false, "include standard datatypes")

	return cmd
}

func runDescribe(opts *DescribeOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	paths, err := requireModulePaths(opts.RootOptions, formatter, paths)
	if err != nil {
		return err
	}
	om, err := loadModel(cmd.Context(), opts.RootOptions, formatter, paths)
	if err != nil {
		return err
	}

	if opts.Type != "" {
		return describeType(formatter, om, opts.Type)
	}
	return describeModel(formatter, om, opts.All)
}

func describeModel(formatter *OutputFormatter, om *fom.ObjectModel, all bool) error {
	fp, err := datatype.ModelFingerprint(om.Datatypes)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "cannot fingerprint model", err)
	}

	result := DescribeResult{
		Fingerprint:        fp,
		Total:              om.Datatypes.Len(),
		Datatypes:          []DatatypeSummary{},
		ObjectClasses:      summariseClasses(om, om.ObjectClasses(), om.AttributeDatatype),
		InteractionClasses: summariseClasses(om, om.InteractionClasses(), om.ParameterDatatype),
	}
	for _, m := range om.Modules() {
		result.Modules = append(result.Modules, m.Module)
	}

	std := datatype.StandardModel()
	for _, r := range om.Datatypes.Refs() {
		if _, standard := std.Lookup(r.Name()); standard && !all {
			continue
		}
		result.Datatypes = append(result.Datatypes, DatatypeSummary{Name: r.Name(), Class: r.Class().String()})
	}
	slices.SortFunc(result.Datatypes, func(a, b DatatypeSummary) int { return strings.Compare(a.Name, b.Name) })

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	writeModelText(formatter.Writer, result, all)
	return nil
}

func summariseClasses(om *fom.ObjectModel, classes []string, lookup func(class, member string) (datatype.Ref, error)) []ClassSummary {
	out := make([]ClassSummary, 0, len(classes))
	for _, class := range classes {
		cs := ClassSummary{Name: class, Members: []MemberSummary{}}
		for _, m := range om.Members(class) {
			ref, err := lookup(class, m)
			if err != nil {
				continue
			}
			cs.Members = append(cs.Members, MemberSummary{Name: m, Datatype: ref.Name()})
		}
		out = append(out, cs)
	}
	return out
}

func writeModelText(w io.Writer, r DescribeResult, all bool) {
	fmt.Fprintf(w, "Modules: %s\n", strings.Join(r.Modules, ", "))
	if all {
		fmt.Fprintf(w, "Datatypes: %d\n", r.Total)
	} else {
		fmt.Fprintf(w, "Datatypes: %d declared, %d total\n", len(r.Datatypes), r.Total)
	}
	width := 0
	for _, d := range r.Datatypes {
		width = max(width, len(d.Name))
	}
	for _, d := range r.Datatypes {
		fmt.Fprintf(w, "  %-*s  %s\n", width, d.Name, d.Class)
	}
	writeClassesText(w, "Object classes", r.ObjectClasses)
	writeClassesText(w, "Interaction classes", r.InteractionClasses)
}

func writeClassesText(w io.Writer, title string, classes []ClassSummary) {
	if len(classes) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, c := range classes {
		fmt.Fprintf(w, "  %s\n", c.Name)
		for _, m := range c.Members {
			fmt.Fprintf(w, "    %s: %s\n", m.Name, m.Datatype)
		}
	}
}

func describeType(formatter *OutputFormatter, om *fom.ObjectModel, name string) error {
	ref, ok := om.Datatypes.Lookup(name)
	if !ok {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("datatype %q not found", name), nil)
	}
	def, err := datatype.Describe(om.Datatypes, ref)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "cannot describe datatype", err)
	}
	fp, err := datatype.Fingerprint(om.Datatypes, ref)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "cannot fingerprint datatype", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(TypeResult{
			Name:        ref.Name(),
			Class:       ref.Class().String(),
			Fingerprint: fp,
			Definition:  def,
		})
	}

	dt, err := om.Datatypes.Get(ref)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "cannot describe datatype", err)
	}
	w := formatter.Writer
	fmt.Fprintf(w, "%s: %s\n", ref.Name(), ref.Class())
	writeTypeDetails(w, dt)
	fmt.Fprintf(w, "  fingerprint: %s\n", fp)
	return nil
}

// writeTypeDetails prints a datatype's own structure, naming rather than
// expanding the types it references.
func writeTypeDetails(w io.Writer, dt datatype.Datatype) {
	switch t := dt.(type) {
	case *datatype.BasicType:
		fmt.Fprintf(w, "  size: %d\n  endianness: %s\n", t.Size(), t.Endianness())
	case *datatype.SimpleType:
		fmt.Fprintf(w, "  representation: %s\n", t.Representation().Name())
	case *datatype.EnumeratedType:
		fmt.Fprintf(w, "  representation: %s\n", t.Representation().Name())
		for _, e := range t.Enumerators() {
			fmt.Fprintf(w, "  enumerator %s = %s\n", e.Name(), e.Value())
		}
	case *datatype.ArrayType:
		fmt.Fprintf(w, "  element: %s\n  cardinality: %s\n", t.ElementType().Name(), datatype.FormatCardinality(t.Dimensions()))
	case *datatype.FixedRecordType:
		for _, f := range t.Fields() {
			fmt.Fprintf(w, "  field %s: %s\n", f.Name(), f.Datatype().Name())
		}
	case *datatype.VariantRecordType:
		fmt.Fprintf(w, "  discriminant %s: %s\n", t.DiscriminantName(), t.Discriminant().Name())
		for _, a := range t.Alternatives() {
			enums := make([]string, len(a.Enumerators()))
			for i, e := range a.Enumerators() {
				enums[i] = e.Name()
			}
			fmt.Fprintf(w, "  alternative %s [%s]: %s\n", a.Name(), strings.Join(enums, ", "), a.Datatype().Name())
		}
	}
}
