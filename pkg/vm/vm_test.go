package vm_test

import (
	"errors"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"minilang/pkg/fault"
	"minilang/pkg/symtab"
	"minilang/pkg/vm"
)

var _ = Describe("Instruction", func() {
	It("should render listing lines", func() {
		Expect(vm.Push(-3).String()).To(Equal("PUSH -3"))
		Expect(vm.Load("x").String()).To(Equal("LOAD x"))
		Expect(vm.Store("y").String()).To(Equal("STORE y"))
		Expect(vm.Simple(vm.OpDIV).String()).To(Equal("DIV"))
	})

	It("should look up opcodes by mnemonic", func() {
		op, ok := vm.LookupOpcode("STORE")
		Expect(ok).To(BeTrue())
		Expect(op).To(Equal(vm.OpSTORE))

		_, ok = vm.LookupOpcode("JMP")
		Expect(ok).To(BeFalse())
	})

	It("should map operator symbols to opcodes", func() {
		for sym, want := range map[string]vm.Opcode{"+": vm.OpADD, "-": vm.OpSUB, "*": vm.OpMUL, "/": vm.OpDIV} {
			op, ok := vm.ArithOpcode(sym)
			Expect(ok).To(BeTrue())
			Expect(op).To(Equal(want))
		}
		_, ok := vm.ArithOpcode("==")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Machine", func() {
	var vars *symtab.Table

	BeforeEach(func() {
		vars = symtab.New()
	})

	It("should halt immediately on empty code", func() {
		m := vm.New(nil, vars)
		Expect(m.Halted).To(BeTrue())
		Expect(m.Run()).To(Succeed())
		_, ok := m.Result()
		Expect(ok).To(BeFalse())
	})

	It("should leave the last pushed value as the result", func() {
		v, ok, err := vm.Execute([]vm.Instruction{vm.Push(2), vm.Push(3), vm.Simple(vm.OpADD)}, vars)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int64(5)))
	})

	It("should compute left OP right for SUB and DIV", func() {
		v, _, err := vm.Execute([]vm.Instruction{vm.Push(10), vm.Push(4), vm.Simple(vm.OpSUB)}, vars)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(6)))

		v, _, err = vm.Execute([]vm.Instruction{vm.Push(-7), vm.Push(2), vm.Simple(vm.OpDIV)}, vars)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(-4)))
	})

	It("should bind STOREd values and report an empty stack", func() {
		code := []vm.Instruction{
			vm.Push(2), vm.Push(3), vm.Push(4), vm.Simple(vm.OpMUL), vm.Simple(vm.OpADD), vm.Store("x"),
			vm.Load("x"), vm.Push(1), vm.Simple(vm.OpSUB), vm.Store("y"),
		}
		m := vm.New(code, vars)
		Expect(m.Run()).To(Succeed())
		Expect(m.PC).To(Equal(len(code)))
		Expect(vars.Map()).To(Equal(map[string]int64{"x": 14, "y": 13}))

		_, ok := m.Result()
		Expect(ok).To(BeFalse())
	})

	It("should step one instruction at a time", func() {
		m := vm.New([]vm.Instruction{vm.Push(1), vm.Push(2)}, vars)
		Expect(m.Step()).To(Succeed())
		Expect(m.Stack).To(Equal([]int64{1}))
		Expect(m.Halted).To(BeFalse())

		Expect(m.Step()).To(Succeed())
		Expect(m.Halted).To(BeTrue())
		Expect(m.Step()).To(Succeed())
		Expect(m.Stack).To(Equal([]int64{1, 2}))
	})

	It("should fail LOAD of an unbound name", func() {
		vars.Set("count", 1)
		_, _, err := vm.Execute([]vm.Instruction{vm.Load("cnt")}, vars)

		var undef *fault.UndefinedVariableError
		Expect(errors.As(err, &undef)).To(BeTrue())
		Expect(undef.Name).To(Equal("cnt"))
		Expect(undef.Suggestions).To(ContainElement("count"))
		Expect(fault.KindOf(err)).To(Equal(fault.KindUndefinedVariable))
	})

	It("should fault on stack underflow", func() {
		for _, code := range [][]vm.Instruction{
			{vm.Store("x")},
			{vm.Simple(vm.OpADD)},
			{vm.Push(1), vm.Simple(vm.OpMUL)},
		} {
			_, _, err := vm.Execute(code, vars)
			Expect(errors.Is(err, fault.ErrStackUnderflow)).To(BeTrue())
			Expect(fault.KindOf(err)).To(Equal(fault.KindArithmetic))
		}
	})

	It("should fault on division by zero and keep earlier stores", func() {
		code := []vm.Instruction{vm.Push(1), vm.Store("a"), vm.Push(1), vm.Push(0), vm.Simple(vm.OpDIV), vm.Store("b")}
		m := vm.New(code, vars)
		err := m.Run()

		Expect(errors.Is(err, fault.ErrDivisionByZero)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("pc 4 (DIV)"))
		Expect(m.Halted).To(BeTrue())
		Expect(m.PC).To(Equal(4))
		Expect(vars.Map()).To(Equal(map[string]int64{"a": 1}))
	})

	Context("with an observer", func() {
		var (
			mockCtrl     *gomock.Controller
			mockObserver *MockObserver
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockObserver = NewMockObserver(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should report every executed step in order", func() {
			gomock.InOrder(
				mockObserver.EXPECT().Step(0, vm.Push(6), []int64{6}),
				mockObserver.EXPECT().Step(1, vm.Push(7), []int64{6, 7}),
				mockObserver.EXPECT().Step(2, vm.Simple(vm.OpMUL), []int64{42}),
				mockObserver.EXPECT().Step(3, vm.Store("answer"), []int64{}),
			)

			m := vm.New([]vm.Instruction{vm.Push(6), vm.Push(7), vm.Simple(vm.OpMUL), vm.Store("answer")}, vars)
			m.Observer = mockObserver
			Expect(m.Run()).To(Succeed())
		})

		It("should not report the faulting step", func() {
			mockObserver.EXPECT().Step(0, vm.Push(1), gomock.Any()).Times(1)

			m := vm.New([]vm.Instruction{vm.Push(1), vm.Simple(vm.OpADD)}, vars)
			m.Observer = mockObserver
			Expect(m.Run()).To(HaveOccurred())
		})
	})
})
