package ui

import "github.com/hajimehoshi/ebiten/v2"

// Screen is the interface for browse screens.
type Screen interface {
	// Update handles input and logic. Return a non-nil ScreenTransition to change screens.
	Update() (*ScreenTransition, error)
	// Draw renders the screen.
	Draw(dst *ebiten.Image)
	// OnEnter is called when the screen becomes active.
	OnEnter()
	// OnExit is called when the screen is removed.
	OnExit()
	// Name returns the screen name for debugging.
	Name() string
}

type TransitionType int

const (
	TransitionPush TransitionType = iota
	TransitionPop
	TransitionReplace
)

type ScreenTransition struct {
	Type   TransitionType
	Screen Screen // nil for Pop
}

// ScreenManager manages a stack of screens with an optional modal warning
// on top.
type ScreenManager struct {
	stack   []Screen
	warning *WarningDialog
}

func NewScreenManager() *ScreenManager {
	return &ScreenManager{}
}

func (sm *ScreenManager) Push(s Screen) {
	sm.stack = append(sm.stack, s)
	s.OnEnter()
}

// Pop removes the top screen. The root screen stays.
func (sm *ScreenManager) Pop() {
	if len(sm.stack) <= 1 {
		return
	}
	top := sm.stack[len(sm.stack)-1]
	top.OnExit()
	sm.stack = sm.stack[:len(sm.stack)-1]
	sm.stack[len(sm.stack)-1].OnEnter()
}

func (sm *ScreenManager) Replace(s Screen) {
	if len(sm.stack) > 0 {
		top := sm.stack[len(sm.stack)-1]
		top.OnExit()
		sm.stack[len(sm.stack)-1] = s
	} else {
		sm.stack = append(sm.stack, s)
	}
	s.OnEnter()
}

func (sm *ScreenManager) Current() Screen {
	if len(sm.stack) == 0 {
		return nil
	}
	return sm.stack[len(sm.stack)-1]
}

// ShowWarning opens a modal warning over the current screen, replacing any
// warning already showing.
func (sm *ScreenManager) ShowWarning(title, message string) {
	sm.warning = NewWarningDialog(title, message)
}

// Warning is the open warning, or nil.
func (sm *ScreenManager) Warning() *WarningDialog {
	return sm.warning
}

func (sm *ScreenManager) Update() error {
	if sm.warning != nil {
		if sm.warning.Update() {
			sm.warning = nil
		}
		return nil
	}

	s := sm.Current()
	if s == nil {
		return nil
	}
	tr, err := s.Update()
	if err != nil {
		return err
	}
	sm.apply(tr)
	return nil
}

func (sm *ScreenManager) apply(tr *ScreenTransition) {
	if tr == nil {
		return
	}
	switch tr.Type {
	case TransitionPush:
		sm.Push(tr.Screen)
	case TransitionPop:
		sm.Pop()
	case TransitionReplace:
		sm.Replace(tr.Screen)
	}
}

func (sm *ScreenManager) Draw(dst *ebiten.Image) {
	if s := sm.Current(); s != nil {
		s.Draw(dst)
	}
	if sm.warning != nil {
		sm.warning.Draw(dst)
	}
}

func (sm *ScreenManager) StackSize() int {
	return len(sm.stack)
}
