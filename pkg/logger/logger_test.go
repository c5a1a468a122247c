package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, "text"), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "cycle finished", String("cycle_id", "abc"), Int("teams", 3))

			Convey("Then the fields and caller are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "cycle finished")
				So(out, ShouldContainSubstring, "cycle_id=abc")
				So(out, ShouldContainSubstring, "teams=3")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level filters a message", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown", Error(errors.New("boom")))

			Convey("Then only the warning is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "boom")
			})
		})

		Convey("When using a named logger with bound fields", func() {
			Named("refresh").With(String("component", "loop")).Info(ctx, "tick")

			Convey("Then the name and bound field are written", func() {
				So(buf.String(), ShouldContainSubstring, "logger=refresh")
				So(buf.String(), ShouldContainSubstring, "component=loop")
			})
		})
	})
}

func TestLoggerJSONFormat(t *testing.T) {
	Convey("Given the json format", t, func() {
		var buf bytes.Buffer
		So(InitWith(&buf, "json"), ShouldBeNil)

		Get().Error(context.Background(), "failed", Stack())

		So(buf.String(), ShouldStartWith, "{")
		So(buf.String(), ShouldContainSubstring, `"stack"`)
	})

	Convey("Given an unknown format", t, func() {
		So(InitWith(&bytes.Buffer{}, "xml"), ShouldNotBeNil)
	})

	Convey("Given an unknown level", t, func() {
		So(Init(), ShouldBeNil)
		So(SetLevelString("loud"), ShouldNotBeNil)
	})
}
