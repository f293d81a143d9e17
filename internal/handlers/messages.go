package handlers

const (
	msgRegistered       = "Успешная регистрация!"
	msgLoggedIn         = "Вы успешно вошли!"
	msgLoggedOut        = "Вы успешно вышли из аккаунта!"
	msgPasswordMismatch = "Пароли не совпадают."
	msgUserExists       = "Юзер с этим email или username уже зарегистрирован!"

	msgProductsListed   = "Продукты успешно получены"
	msgProductCreated   = "Продукт успешно загружен!"
	msgProductFound     = "Продукт с id: %d успешно найден!"
	msgProductMissing   = "Продукт с id: %d не существует."
	msgProductGone      = "Данный товар не найден."
	msgProductDeleted   = "Товар успешно удалён!"
	msgProductDeleteErr = "Ошибка при удалении товара."
	msgNotAnImage       = "Картинка должна быть изображением."
	msgBadExtension     = "Неподдерживаемый формат файла: %s. Разрешены: %s"

	msgCartItemMissing = "Товар не найден"
	msgCartListed      = "Корзина получена"
	msgCartRemoved     = "Товар удалён из корзины"
	msgCartNoSuchItem  = "Данного товара нет в корзине."
	msgCartInvalidPair = "Не удалось добавить товар в корзину."
	msgCartTooMany     = "Слишком большое количество товара."

	msgRatingSaved       = "Рейтинг успешно опубликован!"
	msgRatingsListed     = "Успешно получены данные!"
	msgUserRatingFound   = "Успешно получена оценка пользователя!"
	msgUserRatingsListed = "Успешно получены оценки пользователя!"
	msgRatingInvalidPair = "Неверный товар или пользователь."

	msgProfile          = "Профиль получен"
	msgProfileUpdated   = "Профиль успешно обновлён!"
	msgProfileNoChanges = "Нет данных для обновления."
	msgPasswordRequired = "Введите новый пароль."
	msgConfirmRequired  = "Подтвердите новый пароль."
	msgEmailTaken       = "Этот email уже используется."
	msgUsernameTaken    = "Это имя пользователя уже занято."
)
