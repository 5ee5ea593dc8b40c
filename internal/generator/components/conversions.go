package components

import (
	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/model"
)

type instantPair struct {
	from, to model.InstantKind
}

// instantConversions holds the canonical expression for each ordered pair of instant
// representations. %[1]s is the source expression; the other verbs are package names.
var instantConversions = map[instantPair]struct {
	format string
	pkgs   []string
}{
	{model.InstantAware, model.InstantNaive}: {"%[2]s.DateTimeOf(%[1]s)", []string{analyzer.CivilPath}},
	{model.InstantAware, model.InstantWire}:  {"%[2]s.New(%[1]s)", []string{analyzer.TimestampPath}},
	{model.InstantNaive, model.InstantAware}: {"%[1]s.In(%[2]s.Local)", []string{analyzer.TimePath}},
	{model.InstantNaive, model.InstantWire}:  {"%[2]s.New(%[1]s.In(%[3]s.Local).UTC())", []string{analyzer.TimestampPath, analyzer.TimePath}},
	{model.InstantWire, model.InstantAware}:  {"%[1]s.AsTime()", nil},
	{model.InstantWire, model.InstantNaive}:  {"%[2]s.DateTimeOf(%[1]s.AsTime().Local())", []string{analyzer.CivilPath}},
}

type durationPair struct {
	from, to model.DurationKind
}

var durationConversions = map[durationPair]struct {
	format string
	pkgs   []string
}{
	{model.DurationNative, model.DurationWire}: {"%[2]s.New(%[1]s)", []string{analyzer.DurationPBPath}},
	{model.DurationWire, model.DurationNative}: {"%[1]s.AsDuration()", nil},
}

var packageNames = map[string]string{
	analyzer.TimePath:       "time",
	analyzer.CivilPath:      "civil",
	analyzer.TimestampPath:  "timestamppb",
	analyzer.DurationPBPath: "durationpb",
}

// canConvert reports whether a conversion expression exists from source to target.
func canConvert(source, target *model.TypeSchema) bool {
	_, _, ok := conversionFor(source, target)
	return ok
}

func conversionFor(source, target *model.TypeSchema) (string, []string, bool) {
	ss, ts := source.Shape, target.Shape
	switch {
	case ss.Kind == model.InstantOfTime && ts.Kind == model.InstantOfTime:
		c, ok := instantConversions[instantPair{ss.Instant, ts.Instant}]
		return c.format, c.pkgs, ok
	case ss.Kind == model.Duration && ts.Kind == model.Duration:
		c, ok := durationConversions[durationPair{ss.Duration, ts.Duration}]
		return c.format, c.pkgs, ok
	}
	return "", nil, false
}
