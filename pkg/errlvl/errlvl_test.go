package errlvl

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrap(t *testing.T) {
	type args struct {
		err   error
		level Lvl
	}
	tests := []struct {
		name      string
		args      args
		wantLevel ErrorLevel
	}{
		{
			name: "wrap error with level",
			args: args{
				err:   errors.New("test"),
				level: WARN,
			},
			wantLevel: ErrWarn,
		},
		{
			name: "wrap joined errors",
			args: args{
				err:   errors.Join(errors.New("test1"), errors.New("test2")),
				level: FATAL,
			},
			wantLevel: ErrFatal,
		},
		{
			name: "unknown level falls back to error",
			args: args{
				err:   errors.New("test"),
				level: Lvl(42),
			},
			wantLevel: ErrError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(tt.args.err, tt.args.level)
			if !errors.Is(err, tt.wantLevel) {
				t.Errorf("Wrap() wrong error level = %v, want %v", err, tt.wantLevel)
			}
			if !errors.Is(err, tt.args.err) {
				t.Errorf("Wrap() original error not wrapped = %v, want %v", err, tt.args.err)
			}
		})
	}
}

func TestWrap_keepsExistingLevel(t *testing.T) {
	inner := Wrap(errors.New("test"), INFO)
	err := Wrap(inner, FATAL)
	if err != inner {
		t.Errorf("Wrap() re-wrapped an error that already had a level: %v", err)
	}
	if Wrap(nil, ERROR) != nil {
		t.Error("Wrap(nil) should stay nil")
	}
}

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Lvl
	}{
		{name: "nil", err: nil, want: DEBUG},
		{name: "no level", err: errors.New("plain"), want: ERROR},
		{name: "warn", err: Wrap(errors.New("x"), WARN), want: WARN},
		{name: "wrapped with context", err: fmt.Errorf("ctx: %w", Wrap(errors.New("x"), INFO)), want: INFO},
		{
			name: "joined keeps most severe",
			err:  errors.Join(Wrap(errors.New("a"), WARN), Wrap(errors.New("b"), FATAL)),
			want: FATAL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Of(tt.err); got != tt.want {
				t.Errorf("Of() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_hasLevel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "error with info level", err: fmt.Errorf("%w %w", ErrInfo, errors.New("test")), want: true},
		{name: "error with warn level", err: fmt.Errorf("%w %w", ErrWarn, errors.New("test")), want: true},
		{name: "error with fatal level", err: fmt.Errorf("%w %w", ErrFatal, errors.New("test")), want: true},
		{name: "error without level", err: errors.New("test"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasLevel(tt.err); got != tt.want {
				t.Errorf("hasLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLvl_String(t *testing.T) {
	if FATAL.String() != "FATAL" || Lvl(0).String() != "UNKNOWN" {
		t.Errorf("unexpected level names: %s %s", FATAL, Lvl(0))
	}
}
